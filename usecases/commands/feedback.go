package commands

import (
	"context"
	"fmt"

	"daosim/core/log"
	"daosim/models"
	"daosim/utils"
)

// FeedbackOption adjusts a single Feedback invocation.
type FeedbackOption func(*feedbackOptions)

type feedbackOptions struct {
	publicThread *models.Thread
}

// WithPublicThread posts the feedback to thread instead of searching the
// public discussions channel for the companion thread.
func WithPublicThread(thread *models.Thread) FeedbackOption {
	return func(o *feedbackOptions) {
		o.publicThread = thread
	}
}

// Feedback relays a representative's message from a referendum thread to
// the matching public discussion thread, without revealing who sent it.
func Feedback(ctx context.Context, interaction *models.Interaction, cfg Config, opts ...FeedbackOption) (Result, error) {
	var options feedbackOptions
	for _, opt := range opts {
		opt(&options)
	}

	log.Info("📋 Starting to handle feedback command from %s", interaction.User.Name)

	if err := interaction.Defer(true); err != nil {
		return Result{}, fmt.Errorf("failed to defer feedback response: %w", err)
	}

	reply := func(content string) (Result, error) {
		if err := interaction.Followup(content, true); err != nil {
			return Result{}, fmt.Errorf("failed to send feedback followup: %w", err)
		}
		return ResultOf(interaction), nil
	}

	message, ok := interaction.Option("message").Get()
	if !ok || message == "" {
		return reply("Please provide a feedback message.")
	}

	if !interaction.User.HasAnyRole(RepresentativeRoleName, AdminRoleName) {
		log.Info("⚠️ %s lacks the representative role for feedback", interaction.User.Name)
		return reply(fmt.Sprintf("You don't have permission to use this command. Only users with the @%s role can provide feedback.", RepresentativeRoleName))
	}

	thread, ok := interaction.Thread().Get()
	if !ok || thread.ParentID() != cfg.ForumChannelID {
		return reply(fmt.Sprintf("This command can only be used in threads within the #%s channel.", cfg.ForumChannelName))
	}

	referendumNumber, ok := utils.ExtractReferendumNumber(thread.Name).Get()
	if !ok {
		return reply("Could not determine the referendum number from this thread's name.")
	}

	publicThread := options.publicThread
	if publicThread == nil {
		publicChannel, ok := interaction.Guild.ChannelByName(cfg.PublicDiscussionsChannel).Get()
		if !ok {
			return reply(fmt.Sprintf("Error: Could not find the %s channel", cfg.PublicDiscussionsChannel))
		}

		publicThread = findCompanionThread(publicChannel, referendumNumber)
		if publicThread == nil {
			botUser := models.NewBotUser(anonymousAuthorName)
			publicThread = publicChannel.CreateThread(utils.CompanionThreadName(thread.Name), botUser)
			log.Info("✅ Created public discussion thread %q (%d)", publicThread.Name, publicThread.ID)
		}
	}

	publicThread.Send("**Feedback:** "+message, models.WithAuthor(models.NewBotUser(anonymousAuthorName)))
	log.Info("✅ Posted anonymous feedback for referendum %s to thread %d", referendumNumber, publicThread.ID)

	return reply(fmt.Sprintf("Your feedback has been anonymously posted to the %s channel.", cfg.PublicDiscussionsChannel))
}

func findCompanionThread(channel *models.Channel, referendumNumber string) *models.Thread {
	pattern := utils.CompanionThreadPattern(referendumNumber)
	for _, thread := range channel.Threads {
		if pattern.MatchString(thread.Name) {
			return thread
		}
	}
	return nil
}
