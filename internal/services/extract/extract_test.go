package extract

import (
	"testing"

	"field-dispatch-service/internal/domain"
)

func TestJobsForDateRequiresDateAndTeam(t *testing.T) {
	order := domain.Order{
		OrderNumber:     "ORD-1",
		DeliveryAddress: "5 Rue du Four",
		Setup: &domain.Visit{
			Date: "2026-09-01",
			// Confirmed date matches, but no team assigned yet.
		},
		Dismantle: &domain.Visit{
			Date: "2026-09-02",
			Team: domain.TeamBrioche,
		},
	}

	jobs := JobsForDate(order, "2026-09-01")
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs for unassigned setup, got %d", len(jobs))
	}

	jobs = JobsForDate(order, "2026-09-02")
	if len(jobs) != 1 {
		t.Fatalf("expected 1 dismantle job, got %d", len(jobs))
	}
	if jobs[0].Kind != domain.JobDismantle {
		t.Fatalf("expected dismantle, got %q", jobs[0].Kind)
	}
}

func TestJobsForDateProducesUpToThreeJobs(t *testing.T) {
	order := domain.Order{
		OrderNumber: "ORD-7",
		Setup:       &domain.Visit{Date: "2026-09-01", Team: domain.TeamAmandine, Address: "A"},
		Dismantle:   &domain.Visit{Date: "2026-09-01", Team: domain.TeamAmandine, Address: "A", CoJoin: true},
		Adhoc:       &domain.Visit{Date: "2026-09-01", Team: domain.TeamCanele, Address: "B"},
	}

	jobs := JobsForDate(order, "2026-09-01")
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	for _, j := range jobs {
		if j.CanOptimize() != (!j.Rigid && !j.CoJoin) {
			t.Fatalf("CanOptimize out of sync with flags for %q", j.Kind)
		}
	}
	if jobs[1].CanOptimize() {
		t.Fatalf("co-joined dismantle must not be optimizable")
	}
}

func TestJobsForDateAddressFallbackChain(t *testing.T) {
	cases := []struct {
		name  string
		order domain.Order
		want  string
	}{
		{
			name: "kind address wins",
			order: domain.Order{
				DeliveryAddress: "delivery",
				BillingAddress:  "billing",
				Setup:           &domain.Visit{Date: "2026-09-01", Team: domain.TeamEclair, Address: "site"},
			},
			want: "site",
		},
		{
			name: "delivery address next",
			order: domain.Order{
				DeliveryAddress: "delivery",
				BillingAddress:  "billing",
				Setup:           &domain.Visit{Date: "2026-09-01", Team: domain.TeamEclair},
			},
			want: "delivery",
		},
		{
			name: "billing address next",
			order: domain.Order{
				BillingAddress: "billing",
				Setup:          &domain.Visit{Date: "2026-09-01", Team: domain.TeamEclair},
			},
			want: "billing",
		},
		{
			name: "unresolved stays empty",
			order: domain.Order{
				Setup: &domain.Visit{Date: "2026-09-01", Team: domain.TeamEclair, Address: "   "},
			},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs := JobsForDate(tc.order, "2026-09-01")
			if len(jobs) != 1 {
				t.Fatalf("expected 1 job, got %d", len(jobs))
			}
			if jobs[0].Address != tc.want {
				t.Fatalf("address = %q, want %q", jobs[0].Address, tc.want)
			}
		})
	}
}

func TestTeamJobsForDatePreservesStoreOrder(t *testing.T) {
	orders := []domain.Order{
		{OrderNumber: "ORD-1", Setup: &domain.Visit{Date: "2026-09-01", Team: domain.TeamBrioche, Address: "A"}},
		{OrderNumber: "ORD-2", Setup: &domain.Visit{Date: "2026-09-01", Team: domain.TeamAmandine, Address: "B"}},
		{OrderNumber: "ORD-3", Adhoc: &domain.Visit{Date: "2026-09-01", Team: domain.TeamBrioche, Address: "C"}},
	}

	jobs := TeamJobsForDate(orders, domain.TeamBrioche, "2026-09-01")
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].OrderNumber != "ORD-1" || jobs[1].OrderNumber != "ORD-3" {
		t.Fatalf("store order not preserved: %q then %q", jobs[0].OrderNumber, jobs[1].OrderNumber)
	}
}

func TestJobsForDateParsesTargetTime(t *testing.T) {
	order := domain.Order{
		Setup: &domain.Visit{
			Date:       "2026-09-01",
			Team:       domain.TeamDacquoise,
			Address:    "A",
			TargetTime: "10:30",
		},
	}

	jobs := JobsForDate(order, "2026-09-01")
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if got := jobs[0].TargetTime.Format("15:04"); got != "10:30" {
		t.Fatalf("target time = %q, want 10:30", got)
	}
	if jobs[0].DurationMins != defaultDurationMins {
		t.Fatalf("duration = %d, want default %d", jobs[0].DurationMins, defaultDurationMins)
	}
}
