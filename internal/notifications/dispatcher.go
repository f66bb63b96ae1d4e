package notifications

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/apex/log"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
)

// Dispatcher delivers at most one native push per user per announcement
// version. A nil messaging client disables delivery but still records
// nothing, so enabling push later re-evaluates cleanly.
type Dispatcher struct {
	messaging *messaging.Client
	users     repositories.UserRepository
	profiles  repositories.ProfileRepository
	states    repositories.NotificationStateRepository
	tokens    repositories.DeviceTokenRepository
}

// NewDispatcher creates a push dispatcher.
func NewDispatcher(
	msg *messaging.Client,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	states repositories.NotificationStateRepository,
	tokens repositories.DeviceTokenRepository,
) *Dispatcher {
	return &Dispatcher{
		messaging: msg,
		users:     users,
		profiles:  profiles,
		states:    states,
		tokens:    tokens,
	}
}

// DispatchAnnouncement evaluates one announcement version against every
// user with a registered device and pushes to the eligible ones.
func (d *Dispatcher) DispatchAnnouncement(ctx context.Context, ann models.Announcement) {
	if d.messaging == nil {
		return
	}

	allTokens, err := d.tokens.ListAllTokens()
	if err != nil {
		log.WithError(err).Error("push dispatch: failed to list device tokens")
		return
	}

	byUser := make(map[uint][]models.DeviceToken)
	for _, t := range allTokens {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}

	for userID, userTokens := range byUser {
		if err := d.dispatchToUser(ctx, ann, userID, userTokens); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("push dispatch failed for user")
		}
	}
}

func (d *Dispatcher) dispatchToUser(ctx context.Context, ann models.Announcement, userID uint, tokens []models.DeviceToken) error {
	user, err := d.users.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	profile, err := d.profiles.GetProfile(userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	account := models.MergeAccount(user, profile)

	if !Relevant(account.Barangay, ann) {
		return nil
	}

	state, err := d.states.GetState(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load notification state: %w", err)
	}

	item := Item{
		Announcement: ann,
		Key:          VersionKey(ann),
		Read:         KeySet(state.ReadKeys)[VersionKey(ann)],
	}
	if !PushEligible(item, KeySet(state.PushedKeys), state.Prefs) {
		return nil
	}

	title := fmt.Sprintf("Power advisory: %s", ann.Barangay)
	if ann.Type == models.AnnouncementScheduled {
		title = fmt.Sprintf("Scheduled interruption: %s", ann.Barangay)
	}

	sent := 0
	for _, t := range tokens {
		_, err := d.messaging.Send(ctx, &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  ann.Description,
			},
			Data: map[string]string{
				"announcement_id": fmt.Sprint(ann.ID),
				"version_key":     item.Key,
			},
		})
		if err != nil {
			if messaging.IsRegistrationTokenNotRegistered(err) {
				if delErr := d.tokens.DeleteToken(t.Token); delErr != nil {
					log.WithError(delErr).Warn("failed to drop stale device token")
				}
				continue
			}
			log.WithError(err).Warn("push send failed")
			continue
		}
		sent++
	}

	// Record the key even when only some sends succeeded: the version was
	// surfaced once and must not repeat.
	if sent > 0 {
		if err := d.states.AddPushedKey(ctx, userID, item.Key); err != nil {
			return fmt.Errorf("failed to record pushed key: %w", err)
		}
		log.WithFields(log.Fields{
			"user_id": userID,
			"key":     item.Key,
			"devices": sent,
			"at":      time.Now().Format(time.RFC3339),
		}).Info("push delivered")
	}
	return nil
}
