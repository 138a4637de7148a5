package scenarios

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"daosim/core"
	"daosim/models"
	"daosim/usecases/commands"
	"daosim/usecases/environment"
	"daosim/utils"
)

type step struct {
	name string
	run  func(ctx context.Context, s *session) (string, error)
}

const (
	defaultReferendumTitle = "123: Treasury Spend for Development"
	votingReferendumTitle  = "124: Runtime Upgrade"
	customReferendumTitle  = "125: Custom Treasury Proposal"

	publicDiscussionsForum = "public-discussions"
)

var errNoReferendum = errors.New("no referendum thread; the creation step did not pass")

func defaultSteps() []step {
	return []step{
		createReferendumStep(defaultReferendumTitle,
			"Funding request for six months of client development.", "dao_rep1", "MediumSpender"),
		{name: "create public discussion", run: createPublicDiscussion},
		feedbackStep("representative feedback", "dao_rep2", "Budget looks reasonable, milestones need detail.", "anonymously posted"),
		feedbackStep("participant feedback denied", "participant1", "I want to weigh in.", "You don't have permission"),
		{name: "feedback outside referendum denied", run: feedbackOutsideReferendum},
		{name: "discussion", run: discussion},
		voteStep("representative votes", map[string]string{
			"dao_rep1": "yes",
			"dao_rep2": "yes",
			"dao_rep3": "no",
			"dao_rep4": "yes",
			"dao_rep5": "yes",
		}),
		{name: "quorum", run: quorum},
		rejectedVotesStep("non-representative votes rejected", "participant1", "implementer1", "dotgov_bot"),
		{name: "permission summary", run: permissionSummary},
	}
}

func votingSteps() []step {
	return []step{
		createReferendumStep(votingReferendumTitle, "Upgrade the runtime to the next release.", "admin_user", "Root"),
		voteStep("representative and admin votes", map[string]string{
			"dao_rep1":   "aye",
			"dao_rep2":   "nay",
			"admin_user": "aye",
		}),
		rejectedVotesStep("participant vote rejected", "participant2"),
		slashVoteStep("slash vote allowed", "dao_rep4", "124", "has been cast!"),
		slashVoteStep("slash vote denied", "participant2", "124", "You don't have permission to vote"),
		{name: "quorum", run: quorum},
	}
}

func customSteps() []step {
	return []step{
		createReferendumStep(customReferendumTitle, "A custom proposal spanning two spend tracks.", "admin_user",
			"BigSpender", "Treasurer"),
		{name: "discussion", run: customDiscussion},
		feedbackStep("admin feedback", "admin_user", "Please split the request per track.", "anonymously posted"),
		{name: "tag lookups", run: tagLookups},
	}
}

func createReferendumStep(title, content, author string, tags ...string) step {
	return step{
		name: "create referendum",
		run: func(ctx context.Context, s *session) (string, error) {
			thread, err := s.env.CreateReferendumPost(title, content, author, tags...)
			if err != nil {
				return "", err
			}
			s.referendum = thread
			return fmt.Sprintf("%s opened %q (thread %d) with tags %v", author, thread.Name, thread.ID, tagNames(thread)), nil
		},
	}
}

func createPublicDiscussion(ctx context.Context, s *session) (string, error) {
	if s.referendum == nil {
		return "", errNoReferendum
	}
	title := utils.CompanionThreadName(s.referendum.Name)
	thread, err := s.env.CreateForumPost(title, "Public discussion for "+s.referendum.Name, publicDiscussionsForum, "bot_user")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("opened %q (thread %d)", thread.Name, thread.ID), nil
}

// feedbackStep runs /feedback from the referendum thread and expects the
// reply to contain want.
func feedbackStep(name, user, message, want string) step {
	return step{
		name: name,
		run: func(ctx context.Context, s *session) (string, error) {
			if s.referendum == nil {
				return "", errNoReferendum
			}
			result, err := s.env.SimulateSlashCommand(ctx, environment.SlashCommand{
				Name:     commands.CommandFeedback,
				Options:  map[string]string{"message": message},
				UserName: user,
				ThreadID: s.referendum.ID,
			})
			return expectReply(result, err, want)
		},
	}
}

func feedbackOutsideReferendum(ctx context.Context, s *session) (string, error) {
	result, err := s.env.SimulateSlashCommand(ctx, environment.SlashCommand{
		Name:        commands.CommandFeedback,
		Options:     map[string]string{"message": "Posting from the wrong place."},
		UserName:    "dao_rep1",
		ChannelName: "general",
	})
	return expectReply(result, err, "can only be used in threads")
}

func slashVoteStep(name, user, referendum, want string) step {
	return step{
		name: name,
		run: func(ctx context.Context, s *session) (string, error) {
			if s.referendum == nil {
				return "", errNoReferendum
			}
			result, err := s.env.SimulateSlashCommand(ctx, environment.SlashCommand{
				Name: commands.CommandVote,
				Options: map[string]string{
					"referendum": referendum,
					"conviction": "1x",
					"decision":   "aye",
				},
				UserName: user,
				ThreadID: s.referendum.ID,
			})
			return expectReply(result, err, want)
		},
	}
}

func expectReply(result commands.Result, err error, want string) (string, error) {
	if err != nil {
		return "", err
	}
	if !result.ResponseSent {
		return "", errors.New("no response was sent")
	}
	if !strings.Contains(result.ResponseContent, want) {
		return "", fmt.Errorf("unexpected reply %q, want it to contain %q", result.ResponseContent, want)
	}
	return result.ResponseContent, nil
}

func discussion(ctx context.Context, s *session) (string, error) {
	if s.referendum == nil {
		return "", errNoReferendum
	}
	threadMessages := []struct{ author, content string }{
		{"dao_rep1", "Opening this up for discussion."},
		{"participant1", "How will progress be reported?"},
		{"implementer1", "We can share monthly updates."},
	}
	for _, m := range threadMessages {
		if _, err := s.env.AddMessageToThread(s.referendum, m.content, m.author); err != nil {
			return "", err
		}
	}
	if _, err := s.env.SimulateMessage(ctx, "general", "New referendum is up for discussion.", "dao_rep2"); err != nil {
		return "", err
	}
	if _, err := s.env.SimulateMessage(ctx, "coordination-representatives", "Let's aim to vote by Friday.", "dao_rep1"); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d thread messages, %d channel messages", len(threadMessages), 2), nil
}

func customDiscussion(ctx context.Context, s *session) (string, error) {
	if s.referendum == nil {
		return "", errNoReferendum
	}
	forum := s.env.Commands.ForumChannelName
	posts := []struct{ author, content string }{
		{"implementer1", "The treasurer track seems right for part of this."},
		{"participant2", "What is the total across both tracks?"},
		{"dao_rep4", "I'd like a breakdown before voting."},
	}
	for _, p := range posts {
		if _, err := s.env.AddMessageToForumThread(s.referendum.ID, forum, p.content, p.author); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%d messages in %q", len(s.referendum.Messages()), s.referendum.Name), nil
}

// voteStep posts "!vote <choice>" for each voter and dispatches it to the
// bot, which acknowledges accepted votes with a reaction.
func voteStep(name string, choices map[string]string) step {
	return step{
		name: name,
		run: func(ctx context.Context, s *session) (string, error) {
			if s.referendum == nil {
				return "", errNoReferendum
			}
			for _, voter := range sortedKeys(choices) {
				msg, err := s.env.AddVoteToReferendum(s.referendum, "!vote "+choices[voter], voter)
				if err != nil {
					return "", err
				}
				if err := s.env.Bot.ProcessCommand(ctx, msg); err != nil {
					return "", err
				}
				if !slices.Contains(msg.Reactions, voteAccepted) {
					return "", fmt.Errorf("vote from %s was not acknowledged", voter)
				}
			}
			return fmt.Sprintf("%d votes recorded from %v", len(choices), s.voters()), nil
		},
	}
}

func rejectedVotesStep(name string, users ...string) step {
	return step{
		name: name,
		run: func(ctx context.Context, s *session) (string, error) {
			if s.referendum == nil {
				return "", errNoReferendum
			}
			for _, user := range users {
				_, err := s.env.AddVoteToReferendum(s.referendum, "!vote yes", user)
				if !core.IsPermissionError(err) {
					return "", fmt.Errorf("vote from %s was not refused: %v", user, err)
				}
			}
			return fmt.Sprintf("refused %v", users), nil
		},
	}
}

func quorum(ctx context.Context, s *session) (string, error) {
	votes := s.voteCount()
	eligible := len(s.env.QuorumEligibleUsers())
	percentage := s.env.QuorumPercentage(votes)
	s.report.Quorum = percentage.InexactFloat64()
	if eligible == 0 {
		return "", errors.New("no members are eligible for quorum")
	}
	return fmt.Sprintf("%d/%d eligible voters (%s%%)", votes, eligible, percentage.StringFixed(2)), nil
}

func permissionSummary(ctx context.Context, s *session) (string, error) {
	forum := s.env.ReferendumForum()
	var read, write, vote int
	for _, member := range s.env.Guild.Members {
		if forum.Access.CanRead(member) {
			read++
		}
		if forum.Access.CanWrite(member) {
			write++
		}
		if forum.Access.CanVote(member) {
			vote++
		}
	}
	return fmt.Sprintf("#%s: %d can read, %d can write, %d can vote", forum.Name, read, write, vote), nil
}

func tagLookups(ctx context.Context, s *session) (string, error) {
	if s.referendum == nil {
		return "", errNoReferendum
	}
	for _, name := range []string{"BigSpender", "Treasurer"} {
		if !s.referendum.HasTag(name) {
			return "", fmt.Errorf("referendum is missing tag %s", name)
		}
	}
	forum := s.env.ReferendumForum()
	byID, ok := forum.FindTag(models.TagByID(106)).Get()
	if !ok || byID.Name != "Treasurer" {
		return "", fmt.Errorf("tag lookup by id 106 failed")
	}
	if forum.FindTag(models.TagByName("NoSuchTag")).IsPresent() {
		return "", fmt.Errorf("unknown tag name resolved")
	}
	return fmt.Sprintf("tags %v resolved", tagNames(s.referendum)), nil
}

func tagNames(thread *models.Thread) []string {
	names := make([]string, 0, len(thread.AppliedTags))
	for _, tag := range thread.AppliedTags {
		names = append(names, tag.Name)
	}
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
