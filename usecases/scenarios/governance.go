package scenarios

import (
	"context"

	"daosim/core/log"
	"daosim/services/tasks"

	"github.com/shopspring/decimal"
)

// quorumThreshold is the percentage of eligible voters needed before the
// autonomous voting task would act on a referendum.
const quorumThreshold = 50

// governanceTask returns the emulated body of a background governance task.
// The bodies only observe the guild; none of them mutate it.
func (s *session) governanceTask(name string) tasks.Callback {
	switch tasks.CanonicalTaskName(name) {
	case tasks.TaskCheckGovernance:
		return func(ctx context.Context) error {
			active := s.env.ReferendumForum().ActiveThreads()
			log.Debug("🔄 %s: %d active referenda", name, len(active))
			return nil
		}
	case tasks.TaskAutonomousVoting:
		return func(ctx context.Context) error {
			if s.referendum == nil {
				return nil
			}
			quorum := s.env.QuorumPercentage(s.voteCount())
			if quorum.GreaterThanOrEqual(decimal.NewFromInt(quorumThreshold)) {
				log.Debug("🔄 %s: quorum %s%% reached on %q", name, quorum.StringFixed(2), s.referendum.Name)
			}
			return nil
		}
	case tasks.TaskSyncEmbeds:
		return func(ctx context.Context) error {
			embeds := 0
			for _, thread := range s.env.ReferendumForum().Threads {
				for _, msg := range thread.Messages() {
					embeds += len(msg.Embeds)
				}
			}
			log.Debug("🔄 %s: %d embeds in referendum threads", name, embeds)
			return nil
		}
	case tasks.TaskRecheckProposals:
		return func(ctx context.Context) error {
			archived := s.env.ReferendumForum().ArchivedThreads()
			log.Debug("🔄 %s: %d archived referenda", name, len(archived))
			return nil
		}
	default:
		return func(ctx context.Context) error {
			return nil
		}
	}
}
