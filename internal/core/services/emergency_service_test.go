package services

import (
	"context"
	"testing"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

func newEmergencyServiceForTest(repo *mockEmergencyRepo, pub *mockPublisher) *EmergencyService {
	s := NewEmergencyService(repo, pub)
	s.now = fixedNow
	return s
}

func TestEmergencyService_CreateContact_PrimaryDemotesOthers(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.contacts["c1"] = &domain.EmergencyContact{ID: "c1", UserID: "alice", Name: "Mom", IsPrimary: true, IsActive: true}
	svc := newEmergencyServiceForTest(repo, &mockPublisher{})

	contact, err := svc.CreateContact(context.Background(), "alice", ContactInput{
		Name: "Dad", Relationship: "father", Phone: "+15550001111", IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if !contact.IsPrimary || !contact.IsActive {
		t.Errorf("contact = %+v, want primary and active", contact)
	}
	if repo.contacts["c1"].IsPrimary {
		t.Errorf("previous primary was not demoted")
	}
	if len(repo.DemoteCalls) != 1 {
		t.Errorf("demote calls = %d, want 1", len(repo.DemoteCalls))
	}
}

func TestEmergencyService_CreateContact_SecondaryLeavesPrimaryAlone(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.contacts["c1"] = &domain.EmergencyContact{ID: "c1", UserID: "alice", IsPrimary: true, IsActive: true}
	svc := newEmergencyServiceForTest(repo, &mockPublisher{})

	if _, err := svc.CreateContact(context.Background(), "alice", ContactInput{Name: "Dad", Phone: "+15550001111"}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if !repo.contacts["c1"].IsPrimary {
		t.Errorf("primary was demoted by a secondary contact")
	}
	if len(repo.DemoteCalls) != 0 {
		t.Errorf("demote calls = %d, want 0", len(repo.DemoteCalls))
	}
}

func TestEmergencyService_DeleteContact_SoftDeletes(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.contacts["c1"] = &domain.EmergencyContact{ID: "c1", UserID: "alice", IsActive: true}
	svc := newEmergencyServiceForTest(repo, &mockPublisher{})

	if err := svc.DeleteContact(context.Background(), "alice", "c1"); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	contact, ok := repo.contacts["c1"]
	if !ok {
		t.Fatalf("contact row was removed, want it kept for alert history")
	}
	if contact.IsActive {
		t.Errorf("contact still active after delete")
	}

	err := svc.DeleteContact(context.Background(), "alice", "missing")
	if domain.ClassOf(err) != domain.ClassNotFound {
		t.Errorf("error class = %v, want not found", domain.ClassOf(err))
	}
}

func TestEmergencyService_CreateSOSAlert_NotifiesContacts(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.contacts["c1"] = &domain.EmergencyContact{ID: "c1", UserID: "alice", Phone: "+15550001111", IsActive: true}
	repo.contacts["c2"] = &domain.EmergencyContact{ID: "c2", UserID: "alice", Phone: "+15550002222", IsActive: false}
	repo.contacts["c3"] = &domain.EmergencyContact{ID: "c3", UserID: "bob", Phone: "+15550003333", IsActive: true}
	pub := &mockPublisher{}
	svc := newEmergencyServiceForTest(repo, pub)

	lat, lng := 28.6139, 77.2090
	alert, err := svc.CreateSOSAlert(context.Background(), "alice", SOSInput{
		Latitude: &lat, Longitude: &lng, Address: "Connaught Place", Message: "chest pain",
	})
	if err != nil {
		t.Fatalf("CreateSOSAlert: %v", err)
	}
	if alert.Status != domain.SOSActive {
		t.Errorf("status = %q, want active", alert.Status)
	}
	if alert.Priority != domain.SOSPriorityHigh {
		t.Errorf("priority = %q, want default high", alert.Priority)
	}

	// One dispatch event plus one notification for the single active
	// contact belonging to this user.
	if len(pub.Published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.Published))
	}
	if pub.Published[0].Key != ports.RouteNotifyEmergency {
		t.Errorf("first routing key = %q", pub.Published[0].Key)
	}
	if pub.Published[1].Key != ports.RouteNotifyEmergencyContact {
		t.Errorf("second routing key = %q", pub.Published[1].Key)
	}
	event := pub.Published[1].Event.(map[string]any)
	if event["contact_phone"] != "+15550001111" {
		t.Errorf("notified phone = %v", event["contact_phone"])
	}
}

func TestEmergencyService_CreateSOSAlert_PublishFailureDoesNotFail(t *testing.T) {
	repo := newMockEmergencyRepo()
	pub := &mockPublisher{PublishErr: context.DeadlineExceeded}
	svc := newEmergencyServiceForTest(repo, pub)

	alert, err := svc.CreateSOSAlert(context.Background(), "alice", SOSInput{Message: "help"})
	if err != nil {
		t.Fatalf("CreateSOSAlert: %v", err)
	}
	if _, ok := repo.alerts[alert.ID]; !ok {
		t.Errorf("alert not persisted when publish fails")
	}
}

func TestEmergencyService_UpdateSOSAlert(t *testing.T) {
	tests := []struct {
		name      string
		status    domain.SOSStatus
		update    SOSUpdateInput
		wantClass domain.ErrorClass
	}{
		{name: "resolved alert is frozen", status: domain.SOSResolved, update: SOSUpdateInput{Notes: "late note"}, wantClass: domain.ClassConflict},
		{name: "cancelled alert is frozen", status: domain.SOSCancelled, update: SOSUpdateInput{Status: domain.SOSActive}, wantClass: domain.ClassConflict},
		{name: "active alert takes notes", status: domain.SOSActive, update: SOSUpdateInput{Notes: "ambulance dispatched"}},
		{name: "resolving stamps resolved at", status: domain.SOSActive, update: SOSUpdateInput{Status: domain.SOSResolved}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockEmergencyRepo()
			repo.alerts["a1"] = &domain.SOSAlert{ID: "a1", UserID: "alice", Status: tt.status}
			svc := newEmergencyServiceForTest(repo, &mockPublisher{})

			alert, err := svc.UpdateSOSAlert(context.Background(), "alice", "a1", tt.update)

			if domain.ClassOf(err) != tt.wantClass {
				t.Fatalf("error class = %v, want %v", domain.ClassOf(err), tt.wantClass)
			}
			if tt.wantClass != domain.ClassInternal {
				return
			}
			if tt.update.Notes != "" && alert.Notes != tt.update.Notes {
				t.Errorf("notes = %q, want %q", alert.Notes, tt.update.Notes)
			}
			if tt.update.Status == domain.SOSResolved {
				if alert.ResolvedAt == nil || !alert.ResolvedAt.Equal(fixedNow()) {
					t.Errorf("resolved at = %v", alert.ResolvedAt)
				}
			}
		})
	}
}

func TestEmergencyService_CreateReminder_Defaults(t *testing.T) {
	repo := newMockEmergencyRepo()
	pub := &mockPublisher{}
	svc := newEmergencyServiceForTest(repo, pub)

	reminder, err := svc.CreateReminder(context.Background(), "alice", ReminderInput{
		Type:        domain.ReminderMedication,
		Title:       "Metformin 500mg",
		ScheduledAt: fixedNow().Add(8 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}
	if reminder.Frequency != "once" {
		t.Errorf("frequency = %q, want once", reminder.Frequency)
	}
	if len(reminder.NotificationMethods) != 1 || reminder.NotificationMethods[0] != "push" {
		t.Errorf("notification methods = %v, want [push]", reminder.NotificationMethods)
	}
	if reminder.Status != domain.ReminderActive {
		t.Errorf("status = %q, want active", reminder.Status)
	}
	if len(pub.Published) != 1 || pub.Published[0].Key != ports.RouteReminderSchedule {
		t.Fatalf("published = %+v, want one schedule event", pub.Published)
	}
}

func TestEmergencyService_UpdateReminder_RescheduleRepublishes(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.reminders["r1"] = &domain.Reminder{ID: "r1", UserID: "alice", Title: "Checkup", Status: domain.ReminderActive}
	pub := &mockPublisher{}
	svc := newEmergencyServiceForTest(repo, pub)

	newTime := fixedNow().Add(48 * time.Hour)
	reminder, err := svc.UpdateReminder(context.Background(), "alice", "r1", ReminderUpdateInput{ScheduledAt: &newTime})
	if err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}
	if !reminder.ScheduledAt.Equal(newTime) {
		t.Errorf("scheduled at = %v, want %v", reminder.ScheduledAt, newTime)
	}
	if len(pub.Published) != 1 {
		t.Fatalf("published %d events, want 1 after reschedule", len(pub.Published))
	}

	// A status-only update must not re-enqueue the schedule.
	pub.Published = nil
	_, err = svc.UpdateReminder(context.Background(), "alice", "r1", ReminderUpdateInput{Status: domain.ReminderCompleted})
	if err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}
	if len(pub.Published) != 0 {
		t.Errorf("published %d events for a status update", len(pub.Published))
	}
	if repo.reminders["r1"].CompletedAt == nil {
		t.Errorf("completed at not stamped")
	}
}

func TestEmergencyService_DeleteReminder_Cancels(t *testing.T) {
	repo := newMockEmergencyRepo()
	repo.reminders["r1"] = &domain.Reminder{ID: "r1", UserID: "alice", Status: domain.ReminderActive}
	svc := newEmergencyServiceForTest(repo, &mockPublisher{})

	if err := svc.DeleteReminder(context.Background(), "alice", "r1"); err != nil {
		t.Fatalf("DeleteReminder: %v", err)
	}
	if repo.reminders["r1"].Status != domain.ReminderCancelled {
		t.Errorf("status = %q, want cancelled", repo.reminders["r1"].Status)
	}
}

func TestEmergencyService_SnoozeReminder(t *testing.T) {
	tests := []struct {
		name        string
		minutes     int
		wantMinutes int
	}{
		{name: "explicit snooze window", minutes: 30, wantMinutes: 30},
		{name: "zero falls back to a quarter hour", minutes: 0, wantMinutes: 15},
		{name: "negative falls back too", minutes: -5, wantMinutes: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockEmergencyRepo()
			repo.reminders["r1"] = &domain.Reminder{ID: "r1", UserID: "alice", Status: domain.ReminderActive}
			svc := newEmergencyServiceForTest(repo, &mockPublisher{})

			reminder, err := svc.SnoozeReminder(context.Background(), "alice", "r1", tt.minutes)
			if err != nil {
				t.Fatalf("SnoozeReminder: %v", err)
			}
			want := fixedNow().Add(time.Duration(tt.wantMinutes) * time.Minute)
			if reminder.SnoozeUntil == nil || !reminder.SnoozeUntil.Equal(want) {
				t.Errorf("snooze until = %v, want %v", reminder.SnoozeUntil, want)
			}
		})
	}
}
