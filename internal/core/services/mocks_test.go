package services

import (
	"context"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

// Hand-rolled mocks: maps for state, exported-style fields for error
// injection, slices recording the calls a test wants to assert on.

type mockUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User

	CreateErr   error
	UpdateErr   error
	CreateCalls []*domain.User
	UpdateCalls []*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (m *mockUserRepo) add(u *domain.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.CreateCalls = append(m.CreateCalls, u)
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.add(u)
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	m.UpdateCalls = append(m.UpdateCalls, u)
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.add(u)
	return nil
}

type mockTokenStore struct {
	refresh map[string]string
	reset   map[string]string

	SaveRefreshErr error
	GetResetErr    error
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{refresh: map[string]string{}, reset: map[string]string{}}
}

func (m *mockTokenStore) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	if m.SaveRefreshErr != nil {
		return m.SaveRefreshErr
	}
	m.refresh[userID] = token
	return nil
}

func (m *mockTokenStore) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	t, ok := m.refresh[userID]
	if !ok {
		return "", domain.NotFound("token not found")
	}
	return t, nil
}

func (m *mockTokenStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	delete(m.refresh, userID)
	return nil
}

func (m *mockTokenStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.reset[token] = userID
	return nil
}

func (m *mockTokenStore) GetResetToken(ctx context.Context, token string) (string, error) {
	if m.GetResetErr != nil {
		return "", m.GetResetErr
	}
	id, ok := m.reset[token]
	if !ok {
		return "", domain.NotFound("token not found")
	}
	return id, nil
}

func (m *mockTokenStore) DeleteResetToken(ctx context.Context, token string) error {
	delete(m.reset, token)
	return nil
}

type publishedEvent struct {
	Key   string
	Event any
}

type mockPublisher struct {
	Published  []publishedEvent
	PublishErr error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	m.Published = append(m.Published, publishedEvent{Key: routingKey, Event: event})
	return m.PublishErr
}

// permKey identifies the (granter, grantee, familyMember) triple.
type permKey struct {
	Granter string
	Grantee string
	Member  string
}

type mockFamilyRepo struct {
	members     map[string]*domain.FamilyMember // id -> member
	history     map[string]*domain.MedicalHistory
	permissions map[permKey]*domain.HealthPermission
	permsByID   map[string]*domain.HealthPermission

	memberHasPerms bool

	DeactivateCalls  []string
	CreatePermCalls  []*domain.HealthPermission
	DeleteMemberIDs  []string
	SharedHistory    []domain.MedicalHistory
	SharedHistArgs   []permKey
	DeleteHistoryIDs []string
}

func newMockFamilyRepo() *mockFamilyRepo {
	return &mockFamilyRepo{
		members:     map[string]*domain.FamilyMember{},
		history:     map[string]*domain.MedicalHistory{},
		permissions: map[permKey]*domain.HealthPermission{},
		permsByID:   map[string]*domain.HealthPermission{},
	}
}

func (m *mockFamilyRepo) addPermission(p *domain.HealthPermission) {
	m.permissions[permKey{p.GranterUserID, p.GranteeUserID, p.FamilyMemberID}] = p
	m.permsByID[p.ID] = p
}

func (m *mockFamilyRepo) CreateMember(ctx context.Context, fm *domain.FamilyMember) error {
	m.members[fm.ID] = fm
	return nil
}

func (m *mockFamilyRepo) ListMembers(ctx context.Context, userID string, f domain.FamilyMemberFilter, p domain.Page) ([]domain.FamilyMember, int, error) {
	out := []domain.FamilyMember{}
	for _, fm := range m.members {
		if fm.UserID == userID {
			out = append(out, *fm)
		}
	}
	return out, len(out), nil
}

func (m *mockFamilyRepo) FindMember(ctx context.Context, id, userID string) (*domain.FamilyMember, error) {
	fm, ok := m.members[id]
	if !ok || fm.UserID != userID {
		return nil, domain.NotFound("family member not found")
	}
	return fm, nil
}

func (m *mockFamilyRepo) UpdateMember(ctx context.Context, fm *domain.FamilyMember) error {
	if _, ok := m.members[fm.ID]; !ok {
		return domain.NotFound("family member not found")
	}
	m.members[fm.ID] = fm
	return nil
}

func (m *mockFamilyRepo) DeleteMember(ctx context.Context, id string) error {
	m.DeleteMemberIDs = append(m.DeleteMemberIDs, id)
	delete(m.members, id)
	return nil
}

func (m *mockFamilyRepo) MemberHasActivePermissions(ctx context.Context, memberID string) (bool, error) {
	return m.memberHasPerms, nil
}

func (m *mockFamilyRepo) CreateHistory(ctx context.Context, h *domain.MedicalHistory) error {
	m.history[h.ID] = h
	return nil
}

func (m *mockFamilyRepo) ListHistory(ctx context.Context, userID string, f domain.MedicalHistoryFilter, p domain.Page) ([]domain.MedicalHistory, int, error) {
	out := []domain.MedicalHistory{}
	for _, h := range m.history {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, len(out), nil
}

func (m *mockFamilyRepo) FindHistoryOwned(ctx context.Context, id, userID string) (*domain.MedicalHistory, error) {
	h, ok := m.history[id]
	if !ok {
		return nil, domain.NotFound("medical record not found")
	}
	if h.UserID == userID {
		return h, nil
	}
	if h.FamilyMemberID != "" {
		if fm, ok := m.members[h.FamilyMemberID]; ok && fm.UserID == userID {
			return h, nil
		}
	}
	return nil, domain.NotFound("medical record not found")
}

func (m *mockFamilyRepo) UpdateHistory(ctx context.Context, h *domain.MedicalHistory) error {
	m.history[h.ID] = h
	return nil
}

func (m *mockFamilyRepo) DeleteHistory(ctx context.Context, id string) error {
	m.DeleteHistoryIDs = append(m.DeleteHistoryIDs, id)
	delete(m.history, id)
	return nil
}

func (m *mockFamilyRepo) ListSharedHistory(ctx context.Context, granterUserID, granteeUserID, familyMemberID string, p domain.Page) ([]domain.MedicalHistory, int, error) {
	m.SharedHistArgs = append(m.SharedHistArgs, permKey{granterUserID, granteeUserID, familyMemberID})
	return m.SharedHistory, len(m.SharedHistory), nil
}

func (m *mockFamilyRepo) CreatePermission(ctx context.Context, perm *domain.HealthPermission) error {
	m.CreatePermCalls = append(m.CreatePermCalls, perm)
	m.addPermission(perm)
	return nil
}

func (m *mockFamilyRepo) FindActivePermission(ctx context.Context, granterUserID, granteeUserID, familyMemberID string) (*domain.HealthPermission, error) {
	perm, ok := m.permissions[permKey{granterUserID, granteeUserID, familyMemberID}]
	if !ok || !perm.IsActive {
		return nil, domain.NotFound("permission not found")
	}
	return perm, nil
}

func (m *mockFamilyRepo) ListPermissionsGranted(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error) {
	out := []domain.HealthPermission{}
	for _, perm := range m.permsByID {
		if perm.GranterUserID == userID {
			out = append(out, *perm)
		}
	}
	return out, len(out), nil
}

func (m *mockFamilyRepo) ListPermissionsReceived(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error) {
	out := []domain.HealthPermission{}
	for _, perm := range m.permsByID {
		if perm.GranteeUserID == userID {
			out = append(out, *perm)
		}
	}
	return out, len(out), nil
}

func (m *mockFamilyRepo) FindPermission(ctx context.Context, id, granterUserID string) (*domain.HealthPermission, error) {
	perm, ok := m.permsByID[id]
	if !ok || perm.GranterUserID != granterUserID {
		return nil, domain.NotFound("permission not found")
	}
	return perm, nil
}

func (m *mockFamilyRepo) UpdatePermission(ctx context.Context, perm *domain.HealthPermission) error {
	if _, ok := m.permsByID[perm.ID]; !ok {
		return domain.NotFound("permission not found")
	}
	m.addPermission(perm)
	return nil
}

func (m *mockFamilyRepo) DeactivatePermission(ctx context.Context, id string) error {
	m.DeactivateCalls = append(m.DeactivateCalls, id)
	if perm, ok := m.permsByID[id]; ok {
		perm.IsActive = false
	}
	return nil
}

type mockWellnessRepo struct {
	dietPlans map[string]*domain.DietPlan
	exercises map[string]*domain.ExerciseProgram
	yoga      map[string]*domain.YogaSession
	subs      map[string]*domain.WellnessSubscription

	UpdateSubCalls []*domain.WellnessSubscription
}

func newMockWellnessRepo() *mockWellnessRepo {
	return &mockWellnessRepo{
		dietPlans: map[string]*domain.DietPlan{},
		exercises: map[string]*domain.ExerciseProgram{},
		yoga:      map[string]*domain.YogaSession{},
		subs:      map[string]*domain.WellnessSubscription{},
	}
}

func (m *mockWellnessRepo) ListDietPlans(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.DietPlan, int, error) {
	out := []domain.DietPlan{}
	for _, d := range m.dietPlans {
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (m *mockWellnessRepo) FindDietPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	d, ok := m.dietPlans[id]
	if !ok {
		return nil, domain.NotFound("diet plan not found")
	}
	return d, nil
}

func (m *mockWellnessRepo) ListExercisePrograms(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.ExerciseProgram, int, error) {
	out := []domain.ExerciseProgram{}
	for _, e := range m.exercises {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockWellnessRepo) FindExerciseProgram(ctx context.Context, id string) (*domain.ExerciseProgram, error) {
	e, ok := m.exercises[id]
	if !ok {
		return nil, domain.NotFound("exercise program not found")
	}
	return e, nil
}

func (m *mockWellnessRepo) ListYogaSessions(ctx context.Context, f domain.WellnessFilter, p domain.Page) ([]domain.YogaSession, int, error) {
	out := []domain.YogaSession{}
	for _, y := range m.yoga {
		out = append(out, *y)
	}
	return out, len(out), nil
}

func (m *mockWellnessRepo) FindYogaSession(ctx context.Context, id string) (*domain.YogaSession, error) {
	y, ok := m.yoga[id]
	if !ok {
		return nil, domain.NotFound("yoga session not found")
	}
	return y, nil
}

func (m *mockWellnessRepo) CreateSubscription(ctx context.Context, s *domain.WellnessSubscription) error {
	m.subs[s.ID] = s
	return nil
}

func (m *mockWellnessRepo) FindActiveSubscriptionByType(ctx context.Context, userID string, t domain.SubscriptionType) (*domain.WellnessSubscription, error) {
	for _, s := range m.subs {
		if s.UserID == userID && s.Type == t && s.Status == domain.SubscriptionActive {
			return s, nil
		}
	}
	return nil, domain.NotFound("subscription not found")
}

func (m *mockWellnessRepo) ListSubscriptions(ctx context.Context, userID string, f domain.SubscriptionFilter, p domain.Page) ([]domain.WellnessSubscription, int, error) {
	out := []domain.WellnessSubscription{}
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (m *mockWellnessRepo) FindSubscription(ctx context.Context, id, userID string) (*domain.WellnessSubscription, error) {
	s, ok := m.subs[id]
	if !ok || s.UserID != userID {
		return nil, domain.NotFound("subscription not found")
	}
	return s, nil
}

func (m *mockWellnessRepo) UpdateSubscription(ctx context.Context, s *domain.WellnessSubscription) error {
	m.UpdateSubCalls = append(m.UpdateSubCalls, s)
	m.subs[s.ID] = s
	return nil
}

type mockSupportRepo struct {
	disputes map[string]*domain.Dispute
	tickets  map[string]*domain.SupportTicket
	messages []domain.TicketMessage
	faqs     map[string]*domain.FAQ

	ticketsTotal  int
	ticketsOpen   int
	disputesTotal int
	disputesOpen  int

	FAQViewIncs    []string
	FAQHelpfulIncs []string
}

func newMockSupportRepo() *mockSupportRepo {
	return &mockSupportRepo{
		disputes: map[string]*domain.Dispute{},
		tickets:  map[string]*domain.SupportTicket{},
		faqs:     map[string]*domain.FAQ{},
	}
}

func (m *mockSupportRepo) CreateDispute(ctx context.Context, d *domain.Dispute) error {
	m.disputes[d.ID] = d
	return nil
}

func (m *mockSupportRepo) ListDisputes(ctx context.Context, userID string, f domain.DisputeFilter, p domain.Page) ([]domain.Dispute, int, error) {
	out := []domain.Dispute{}
	for _, d := range m.disputes {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, len(out), nil
}

func (m *mockSupportRepo) FindDispute(ctx context.Context, id, userID string) (*domain.Dispute, error) {
	d, ok := m.disputes[id]
	if !ok || d.UserID != userID {
		return nil, domain.NotFound("dispute not found")
	}
	return d, nil
}

func (m *mockSupportRepo) UpdateDispute(ctx context.Context, d *domain.Dispute) error {
	m.disputes[d.ID] = d
	return nil
}

func (m *mockSupportRepo) CreateTicket(ctx context.Context, t *domain.SupportTicket) error {
	m.tickets[t.ID] = t
	return nil
}

func (m *mockSupportRepo) ListTickets(ctx context.Context, userID string, f domain.TicketFilter, p domain.Page) ([]domain.SupportTicket, int, error) {
	out := []domain.SupportTicket{}
	for _, t := range m.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, len(out), nil
}

func (m *mockSupportRepo) FindTicket(ctx context.Context, id, userID string) (*domain.SupportTicket, error) {
	t, ok := m.tickets[id]
	if !ok || t.UserID != userID {
		return nil, domain.NotFound("ticket not found")
	}
	return t, nil
}

func (m *mockSupportRepo) UpdateTicket(ctx context.Context, t *domain.SupportTicket) error {
	m.tickets[t.ID] = t
	return nil
}

func (m *mockSupportRepo) CreateMessage(ctx context.Context, msg *domain.TicketMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockSupportRepo) ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error) {
	out := []domain.TicketMessage{}
	for _, msg := range m.messages {
		if msg.TicketID != ticketID {
			continue
		}
		if msg.IsInternal && !includeInternal {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (m *mockSupportRepo) ListFAQs(ctx context.Context, f domain.FAQFilter, p domain.Page) ([]domain.FAQ, int, error) {
	out := []domain.FAQ{}
	for _, faq := range m.faqs {
		if faq.IsActive {
			out = append(out, *faq)
		}
	}
	return out, len(out), nil
}

func (m *mockSupportRepo) FindFAQ(ctx context.Context, id string) (*domain.FAQ, error) {
	faq, ok := m.faqs[id]
	if !ok {
		return nil, domain.NotFound("faq not found")
	}
	return faq, nil
}

func (m *mockSupportRepo) IncrementFAQViews(ctx context.Context, id string) error {
	m.FAQViewIncs = append(m.FAQViewIncs, id)
	return nil
}

func (m *mockSupportRepo) IncrementFAQHelpful(ctx context.Context, id string) error {
	m.FAQHelpfulIncs = append(m.FAQHelpfulIncs, id)
	return nil
}

func (m *mockSupportRepo) FAQCategories(ctx context.Context) ([]string, error) {
	return []string{"general", "billing"}, nil
}

func (m *mockSupportRepo) CountTickets(ctx context.Context, userID string, openOnly bool) (int, error) {
	if openOnly {
		return m.ticketsOpen, nil
	}
	return m.ticketsTotal, nil
}

func (m *mockSupportRepo) CountDisputes(ctx context.Context, userID string, openOnly bool) (int, error) {
	if openOnly {
		return m.disputesOpen, nil
	}
	return m.disputesTotal, nil
}

type mockEmergencyRepo struct {
	contacts  map[string]*domain.EmergencyContact
	alerts    map[string]*domain.SOSAlert
	reminders map[string]*domain.Reminder

	CreateAlertErr    error
	ListContactsErr   error
	DemoteCalls       []string
	UpdateContactCall []*domain.EmergencyContact
}

func newMockEmergencyRepo() *mockEmergencyRepo {
	return &mockEmergencyRepo{
		contacts:  map[string]*domain.EmergencyContact{},
		alerts:    map[string]*domain.SOSAlert{},
		reminders: map[string]*domain.Reminder{},
	}
}

func (m *mockEmergencyRepo) CreateContact(ctx context.Context, c *domain.EmergencyContact) error {
	m.contacts[c.ID] = c
	return nil
}

func (m *mockEmergencyRepo) ListContacts(ctx context.Context, userID string, p domain.Page) ([]domain.EmergencyContact, int, error) {
	out := []domain.EmergencyContact{}
	for _, c := range m.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (m *mockEmergencyRepo) ListActiveContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error) {
	if m.ListContactsErr != nil {
		return nil, m.ListContactsErr
	}
	out := []domain.EmergencyContact{}
	for _, c := range m.contacts {
		if c.UserID == userID && c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockEmergencyRepo) FindContact(ctx context.Context, id, userID string) (*domain.EmergencyContact, error) {
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return nil, domain.NotFound("emergency contact not found")
	}
	return c, nil
}

func (m *mockEmergencyRepo) UpdateContact(ctx context.Context, c *domain.EmergencyContact) error {
	m.UpdateContactCall = append(m.UpdateContactCall, c)
	m.contacts[c.ID] = c
	return nil
}

func (m *mockEmergencyRepo) DemotePrimaryContacts(ctx context.Context, userID, exceptID string) error {
	m.DemoteCalls = append(m.DemoteCalls, exceptID)
	for _, c := range m.contacts {
		if c.UserID == userID && c.ID != exceptID {
			c.IsPrimary = false
		}
	}
	return nil
}

func (m *mockEmergencyRepo) CreateAlert(ctx context.Context, a *domain.SOSAlert) error {
	if m.CreateAlertErr != nil {
		return m.CreateAlertErr
	}
	m.alerts[a.ID] = a
	return nil
}

func (m *mockEmergencyRepo) ListAlerts(ctx context.Context, userID string, f domain.SOSAlertFilter, p domain.Page) ([]domain.SOSAlert, int, error) {
	out := []domain.SOSAlert{}
	for _, a := range m.alerts {
		if a.UserID != userID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockEmergencyRepo) FindAlert(ctx context.Context, id, userID string) (*domain.SOSAlert, error) {
	a, ok := m.alerts[id]
	if !ok || a.UserID != userID {
		return nil, domain.NotFound("sos alert not found")
	}
	return a, nil
}

func (m *mockEmergencyRepo) UpdateAlert(ctx context.Context, a *domain.SOSAlert) error {
	m.alerts[a.ID] = a
	return nil
}

func (m *mockEmergencyRepo) CreateReminder(ctx context.Context, r *domain.Reminder) error {
	m.reminders[r.ID] = r
	return nil
}

func (m *mockEmergencyRepo) ListReminders(ctx context.Context, userID string, f domain.ReminderFilter, p domain.Page) ([]domain.Reminder, int, error) {
	out := []domain.Reminder{}
	for _, r := range m.reminders {
		if r.UserID != userID {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockEmergencyRepo) FindReminder(ctx context.Context, id, userID string) (*domain.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok || r.UserID != userID {
		return nil, domain.NotFound("reminder not found")
	}
	return r, nil
}

func (m *mockEmergencyRepo) UpdateReminder(ctx context.Context, r *domain.Reminder) error {
	m.reminders[r.ID] = r
	return nil
}

type mockHomeServiceRepo struct {
	services  map[string]*domain.HomeService
	providers map[string]*domain.ServiceProvider
	bookings  map[string]*domain.HomeServiceBooking
	requests  map[string]*domain.AssistanceRequest

	avgRating   float64
	ratingCount int

	BestProviderErr error
	SetRatingCalls  []float64
}

func newMockHomeServiceRepo() *mockHomeServiceRepo {
	return &mockHomeServiceRepo{
		services:  map[string]*domain.HomeService{},
		providers: map[string]*domain.ServiceProvider{},
		bookings:  map[string]*domain.HomeServiceBooking{},
		requests:  map[string]*domain.AssistanceRequest{},
	}
}

func (m *mockHomeServiceRepo) ListServices(ctx context.Context, category string, p domain.Page) ([]domain.HomeService, int, error) {
	out := []domain.HomeService{}
	for _, s := range m.services {
		if s.IsActive && (category == "" || s.Category == category) {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (m *mockHomeServiceRepo) FindService(ctx context.Context, id string) (*domain.HomeService, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, domain.NotFound("home service not found")
	}
	return s, nil
}

func (m *mockHomeServiceRepo) ListProviders(ctx context.Context, f domain.ProviderFilter, p domain.Page) ([]domain.ServiceProvider, int, error) {
	out := []domain.ServiceProvider{}
	for _, pr := range m.providers {
		if pr.IsActive && pr.IsVerified {
			out = append(out, *pr)
		}
	}
	return out, len(out), nil
}

func (m *mockHomeServiceRepo) FindProvider(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	pr, ok := m.providers[id]
	if !ok {
		return nil, domain.NotFound("service provider not found")
	}
	return pr, nil
}

func (m *mockHomeServiceRepo) BestProviderForService(ctx context.Context, serviceID string) (*domain.ServiceProvider, error) {
	if m.BestProviderErr != nil {
		return nil, m.BestProviderErr
	}
	var best *domain.ServiceProvider
	for _, pr := range m.providers {
		if !pr.IsActive || !pr.IsVerified || !pr.Offers(serviceID) {
			continue
		}
		if best == nil || pr.Rating > best.Rating {
			best = pr
		}
	}
	if best == nil {
		return nil, domain.NotFound("no provider available")
	}
	return best, nil
}

func (m *mockHomeServiceRepo) SetProviderRating(ctx context.Context, providerID string, rating float64) error {
	m.SetRatingCalls = append(m.SetRatingCalls, rating)
	if pr, ok := m.providers[providerID]; ok {
		pr.Rating = rating
	}
	return nil
}

func (m *mockHomeServiceRepo) AverageProviderRating(ctx context.Context, providerID string) (float64, int, error) {
	return m.avgRating, m.ratingCount, nil
}

func (m *mockHomeServiceRepo) CreateBooking(ctx context.Context, b *domain.HomeServiceBooking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockHomeServiceRepo) ListBookings(ctx context.Context, userID string, f domain.StatusFilter, p domain.Page) ([]domain.HomeServiceBooking, int, error) {
	out := []domain.HomeServiceBooking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, len(out), nil
}

func (m *mockHomeServiceRepo) FindBooking(ctx context.Context, id, userID string) (*domain.HomeServiceBooking, error) {
	b, ok := m.bookings[id]
	if !ok || b.UserID != userID {
		return nil, domain.NotFound("booking not found")
	}
	return b, nil
}

func (m *mockHomeServiceRepo) UpdateBooking(ctx context.Context, b *domain.HomeServiceBooking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockHomeServiceRepo) CreateAssistanceRequest(ctx context.Context, r *domain.AssistanceRequest) error {
	m.requests[r.ID] = r
	return nil
}

func (m *mockHomeServiceRepo) ListAssistanceRequests(ctx context.Context, userID string, f domain.AssistanceFilter, p domain.Page) ([]domain.AssistanceRequest, int, error) {
	out := []domain.AssistanceRequest{}
	for _, r := range m.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (m *mockHomeServiceRepo) FindAssistanceRequest(ctx context.Context, id, userID string) (*domain.AssistanceRequest, error) {
	r, ok := m.requests[id]
	if !ok || r.UserID != userID {
		return nil, domain.NotFound("assistance request not found")
	}
	return r, nil
}

func (m *mockHomeServiceRepo) UpdateAssistanceRequest(ctx context.Context, r *domain.AssistanceRequest) error {
	m.requests[r.ID] = r
	return nil
}
