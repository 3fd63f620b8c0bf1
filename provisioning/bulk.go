package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
	"coffeetalk/slug"
)

type Status string

const (
	StatusCreated  Status = "CREATED"
	StatusConflict Status = "CONFLICT"
	StatusSkipped  Status = "SKIPPED"
	StatusFailed   Status = "FAILED"
)

// MemberOutcome is the per-member result of a bulk run.
type MemberOutcome struct {
	User    domain.User
	Channel string
	Status  Status
	Err     error
}

// Report aggregates a bulk run for logging and rendering.
type Report struct {
	Outcomes []MemberOutcome
}

func (r Report) Count(status Status) int {
	return lo.CountBy(r.Outcomes, func(o MemberOutcome) bool { return o.Status == status })
}

func (r Report) Summary() string {
	return fmt.Sprintf("%d created, %d conflicts, %d skipped, %d failed",
		r.Count(StatusCreated), r.Count(StatusConflict), r.Count(StatusSkipped), r.Count(StatusFailed))
}

// ProvisionAll runs the single-user flow for every directory member,
// independently and without rollback. Individual failures are recorded and
// the loop continues; only the initial member listing can fail the run as a
// whole. Two members normalizing to the same slug surface as a Conflict on
// whichever comes second.
func (s *Service) ProvisionAll(ctx context.Context) (Report, error) {
	members, err := s.directory.ListMembers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list members: %w", err)
	}

	botID := s.directory.BotUserID()
	report := Report{Outcomes: make([]MemberOutcome, 0, len(members))}

	for _, member := range members {
		outcome := MemberOutcome{User: member}
		if !member.Provisionable() || member.ID == botID {
			outcome.Status = StatusSkipped
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		outcome.Channel = domain.ChannelName(s.prefix, slug.Normalize(member.Name))

		_, err := s.Provision(ctx, member)
		switch {
		case err == nil:
			outcome.Status = StatusCreated
		case errors.Is(err, cerrors.ErrNameTaken):
			outcome.Status = StatusConflict
			outcome.Err = err
			s.log.Info("Bulk setup: channel already exists",
				"channel", outcome.Channel, "user_id", member.ID)
		default:
			outcome.Status = StatusFailed
			outcome.Err = err
			s.log.Error("Bulk setup: member failed",
				"channel", outcome.Channel, "user_id", member.ID, "error", err)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	s.log.Info("Bulk setup finished", "summary", report.Summary())
	return report, nil
}
