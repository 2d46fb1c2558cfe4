package portal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/api/apitest"
	"buzzportal/internal/app/cache"
	"buzzportal/internal/app/model"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/storage"
	"buzzportal/internal/app/user"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	portal *Portal
	fake   *apitest.Server
	store  *session.Store
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	fake := apitest.NewServer()
	t.Cleanup(fake.Close)

	store := session.NewStore(time.Hour)
	t.Cleanup(store.Shutdown)

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return &harness{
		portal: New(api.New(fake.BaseURL(), time.Second), store, opts...),
		fake:   fake,
		store:  store,
	}
}

// signIn creates an account of the given role and logs it in under sessionID.
func (h *harness) signIn(t *testing.T, sessionID string, role user.Role) Visitor {
	t.Helper()

	email := sessionID + "@campus.edu"
	h.fake.AddAccount("Test "+string(role), email, "secret1", role)

	location, notice := h.portal.Login(context.Background(), sessionID, LoginForm{Email: email, Password: "secret1", Role: role})
	if location == "" {
		t.Fatalf("login failed: %+v", notice)
	}

	sess, ok := h.store.Get(sessionID)
	if !ok {
		t.Fatalf("expected session after login")
	}
	return Visitor{SessionID: sessionID, Session: sess}
}

func (h *harness) seedEvents() (model.Event, model.Event) {
	robotics := h.fake.AddEvent(model.Event{
		Title: "Robotics Expo", Venue: "Main Hall", Date: "2026-03-20", Time: "10:00",
		Category: "technical", Description: "Robots everywhere",
	})
	derby := h.fake.AddEvent(model.Event{
		Title: "Football Derby", Venue: "Stadium", Date: "2026-04-02", Time: "16:00",
		Category: "sports", Description: "Annual match",
	})
	return robotics, derby
}

func TestLoginSendsRoleToDashboard(t *testing.T) {
	cases := map[user.Role]string{
		user.RoleStudent: "/student",
		user.RoleStaff:   "/admin",
	}
	for role, want := range cases {
		h := newHarness(t)
		h.fake.AddAccount("Sam", "sam@campus.edu", "secret1", role)

		location, notice := h.portal.Login(context.Background(), "sid", LoginForm{Email: " sam@campus.edu ", Password: "secret1", Role: role})
		if location != want {
			t.Fatalf("role %s: expected %s, got %q", role, want, location)
		}
		if notice.Level != session.LevelSuccess || notice.Text != "Login successful!" {
			t.Fatalf("role %s: unexpected notice %+v", role, notice)
		}
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	h := newHarness(t)

	location, notice := h.portal.Login(context.Background(), "sid", LoginForm{Email: "a@b.c", Password: "   "})
	if location != "" || notice.Text != "Please enter both email and password" {
		t.Fatalf("unexpected result %q %+v", location, notice)
	}
	if hits := h.fake.Hits(http.MethodPost, "/api/auth/login"); hits != 0 {
		t.Fatalf("expected no login request, got %d", hits)
	}
}

func TestLoginRejectedKeepsVisitorSignedOut(t *testing.T) {
	h := newHarness(t)
	h.fake.AddAccount("Sam", "sam@campus.edu", "secret1", user.RoleStudent)

	location, notice := h.portal.Login(context.Background(), "sid", LoginForm{Email: "sam@campus.edu", Password: "wrong"})
	if location != "" {
		t.Fatalf("expected no redirect, got %s", location)
	}
	if notice.Level != session.LevelError || notice.Text != "Invalid email or password" {
		t.Fatalf("unexpected notice %+v", notice)
	}
	if _, ok := h.store.Get("sid"); ok {
		t.Fatalf("expected no session")
	}
}

func TestSignupValidation(t *testing.T) {
	valid := SignupForm{Name: "Ann", Email: "ann@campus.edu", Password: "secret1", ConfirmPassword: "secret1", TermsAccepted: true}

	cases := map[string]struct {
		mutate func(f *SignupForm)
		want   string
	}{
		"missing name":   {func(f *SignupForm) { f.Name = " " }, "Please fill in all fields"},
		"mismatch":       {func(f *SignupForm) { f.ConfirmPassword = "secret2" }, "Passwords do not match"},
		"short password": {func(f *SignupForm) { f.Password, f.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters"},
		"no terms":       {func(f *SignupForm) { f.TermsAccepted = false }, "Please accept the terms and conditions"},
	}

	h := newHarness(t)
	for name, tc := range cases {
		form := valid
		tc.mutate(&form)

		notice, ok := h.portal.Signup(context.Background(), form)
		if ok || notice.Text != tc.want {
			t.Fatalf("%s: expected %q, got %+v (ok=%v)", name, tc.want, notice, ok)
		}
	}
	if hits := h.fake.Hits(http.MethodPost, "/api/auth/signup"); hits != 0 {
		t.Fatalf("expected no signup request, got %d", hits)
	}

	notice, ok := h.portal.Signup(context.Background(), valid)
	if !ok || notice.Text != "Account created successfully! Please login." {
		t.Fatalf("unexpected signup result %+v ok=%v", notice, ok)
	}

	notice, ok = h.portal.Signup(context.Background(), valid)
	if ok || notice.Text != "Email already registered" {
		t.Fatalf("expected duplicate rejection, got %+v", notice)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	v := h.signIn(t, "sid", user.RoleStudent)

	h.portal.Logout(v.SessionID)
	if _, ok := h.store.Get(v.SessionID); ok {
		t.Fatalf("expected session cleared")
	}
}

func TestLoadStudentKeepsPageUsableWhenAnnouncementsFail(t *testing.T) {
	h := newHarness(t)
	h.seedEvents()
	h.fake.AddAnnouncement("Welcome", "Hello")
	v := h.signIn(t, "sid", user.RoleStudent)
	h.fake.Fail(http.MethodGet, "/api/announcements", http.StatusInternalServerError)

	failed := h.portal.LoadStudent(context.Background(), v, EventQuery{})
	if len(failed) != 1 || failed[cache.Announcements] == nil {
		t.Fatalf("expected only announcements to fail, got %v", failed)
	}

	page := h.portal.StudentPage(v, "", "")
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page.Events))
	}
	if len(page.Announcements) != 0 {
		t.Fatalf("expected empty announcements, got %d", len(page.Announcements))
	}
	if page.Category != "all" || page.Sort != "date" {
		t.Fatalf("expected default filter, got %s/%s", page.Category, page.Sort)
	}
}

func TestLoadAdminKeepsPageUsableWhenAnnouncementsFail(t *testing.T) {
	h := newHarness(t)
	robotics, _ := h.seedEvents()
	h.fake.AddAnnouncement("Welcome", "Hello")
	student := h.signIn(t, "student", user.RoleStudent)
	ctx := context.Background()
	if _, _, err := h.portal.Register(ctx, student, robotics.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := h.signIn(t, "admin", user.RoleStaff)
	h.fake.Fail(http.MethodGet, "/api/announcements", http.StatusInternalServerError)

	failed := h.portal.LoadAdmin(ctx, admin)
	if len(failed) != 1 || failed[cache.Announcements] == nil {
		t.Fatalf("expected only announcements to fail, got %v", failed)
	}

	page := h.portal.AdminPage(admin, AdminView{})
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page.Events))
	}
	counts := map[string]int{}
	for _, card := range page.Events {
		counts[card.ID] = card.Registrations
	}
	if counts[robotics.ID] != 1 {
		t.Fatalf("expected 1 registration on %s, got %v", robotics.Title, counts)
	}
	if page.Stats.TotalStudents != 1 || page.Stats.TotalRegistrations != 1 {
		t.Fatalf("unexpected stats %+v", page.Stats)
	}
	if len(page.Announcements) != 0 {
		t.Fatalf("expected empty announcements, got %d", len(page.Announcements))
	}
}

func TestStudentSearchUsesCacheOnly(t *testing.T) {
	h := newHarness(t)
	h.seedEvents()
	v := h.signIn(t, "sid", user.RoleStudent)
	h.portal.LoadStudent(context.Background(), v, EventQuery{})

	before := h.fake.Hits(http.MethodGet, "/api/events")
	page := h.portal.StudentPage(v, "stadium", "")

	if len(page.Events) != 1 || page.Events[0].Title != "Football Derby" {
		t.Fatalf("expected venue match only, got %+v", page.Events)
	}
	if after := h.fake.Hits(http.MethodGet, "/api/events"); after != before {
		t.Fatalf("expected no events request during search, got %d more", after-before)
	}
}

func TestFilterEventsRemembersQuery(t *testing.T) {
	h := newHarness(t)
	h.seedEvents()
	v := h.signIn(t, "sid", user.RoleStudent)

	if err := h.portal.FilterEvents(context.Background(), v, EventQuery{Category: "sports", Sort: "title"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := h.portal.StudentPage(v, "", "")
	if len(page.Events) != 1 || page.Category != "sports" || page.Sort != "title" {
		t.Fatalf("unexpected filtered page: %d events, %s/%s", len(page.Events), page.Category, page.Sort)
	}
}

func TestDuplicateRegistrationLeavesCacheUnchanged(t *testing.T) {
	h := newHarness(t)
	robotics, _ := h.seedEvents()
	v := h.signIn(t, "sid", user.RoleStudent)
	ctx := context.Background()
	h.portal.LoadStudent(ctx, v, EventQuery{})

	regID, notice, err := h.portal.Register(ctx, v, robotics.ID)
	if err != nil || regID == "" || notice.Text != "Registration successful!" {
		t.Fatalf("unexpected first registration: id=%q notice=%+v err=%v", regID, notice, err)
	}
	if got := h.portal.StudentPage(v, "", "").Stats.Registered; got != 1 {
		t.Fatalf("expected 1 registration after success, got %d", got)
	}

	regHits := h.fake.Hits(http.MethodGet, "/api/registrations/my")
	regID, notice, err = h.portal.Register(ctx, v, robotics.ID)
	if err != nil || regID != "" {
		t.Fatalf("unexpected duplicate result id=%q err=%v", regID, err)
	}
	if notice.Level != session.LevelError || notice.Text != "Already registered for this event" {
		t.Fatalf("unexpected notice %+v", notice)
	}

	page := h.portal.StudentPage(v, "", "")
	if page.Stats.Registered != 1 || !page.Events[0].Registered {
		t.Fatalf("expected cached registrations unchanged, got %+v", page.Stats)
	}
	if after := h.fake.Hits(http.MethodGet, "/api/registrations/my"); after != regHits {
		t.Fatalf("expected no reload after rejection")
	}
}

func TestRegisterWhenServiceUnreachable(t *testing.T) {
	h := newHarness(t)
	robotics, _ := h.seedEvents()
	v := h.signIn(t, "sid", user.RoleStudent)
	h.fake.Close()

	_, notice, err := h.portal.Register(context.Background(), v, robotics.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notice.Text != "An error occurred. Please try again." {
		t.Fatalf("unexpected notice %+v", notice)
	}
}

func TestSignedOutVisitorIsSentToLogin(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.portal.Register(context.Background(), Visitor{SessionID: "sid"}, "evt")
	if !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
	if _, err := h.portal.PostDiscussion(context.Background(), Visitor{SessionID: "sid"}, "hi"); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
}

func TestPostDiscussion(t *testing.T) {
	h := newHarness(t)
	v := h.signIn(t, "sid", user.RoleStudent)
	ctx := context.Background()

	notice, err := h.portal.PostDiscussion(ctx, v, "   ")
	if err != nil || notice.Text != "Please enter a message" {
		t.Fatalf("unexpected empty-message result %+v %v", notice, err)
	}
	if hits := h.fake.Hits(http.MethodPost, "/api/discussions"); hits != 0 {
		t.Fatalf("expected no post, got %d", hits)
	}

	notice, err = h.portal.PostDiscussion(ctx, v, "See you there")
	if err != nil || notice.Text != "" {
		t.Fatalf("unexpected post result %+v %v", notice, err)
	}
	page := h.portal.StudentPage(v, "", "")
	if len(page.Discussions) != 1 || page.Discussions[0].Message != "See you there" {
		t.Fatalf("expected reloaded feed, got %+v", page.Discussions)
	}
}

func TestTicket(t *testing.T) {
	h := newHarness(t)
	robotics, _ := h.seedEvents()
	v := h.signIn(t, "sid", user.RoleStudent)
	ctx := context.Background()
	h.portal.LoadStudent(ctx, v, EventQuery{})

	if _, _, customErr := h.portal.Ticket(v, "missing"); customErr == nil || customErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", customErr)
	}

	regID, _, _ := h.portal.Register(ctx, v, robotics.ID)
	image, name, customErr := h.portal.Ticket(v, regID)
	if customErr != nil {
		t.Fatalf("unexpected error: %v", customErr)
	}
	if !bytes.HasPrefix(image, []byte("\x89PNG")) {
		t.Fatalf("expected PNG bytes")
	}
	if name != "Robotics_Expo_ticket.png" {
		t.Fatalf("unexpected file name %s", name)
	}

	page := h.portal.StudentPage(v, "", regID)
	if page.Ticket == nil || page.Ticket.Title != "Robotics Expo" {
		t.Fatalf("expected ticket dialog, got %+v", page.Ticket)
	}
}

type memoryCovers struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func (m *memoryCovers) Upload(ctx context.Context, cover storage.Cover, body io.Reader) (storage.Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.Object{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "covers/" + cover.Name
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return storage.Object{Key: key, URL: "https://cdn.campus.edu/" + key}, nil
}

func (m *memoryCovers) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func eventForm() EventForm {
	return EventForm{Input: model.EventInput{
		Title: " Hackathon ", Venue: "Lab 3", Date: "2026-05-01", Time: "09:00",
		Category: "technical", Description: "24 hours of code",
	}}
}

func TestCreateEventRoundTrip(t *testing.T) {
	h := newHarness(t)
	v := h.signIn(t, "admin", user.RoleStaff)
	ctx := context.Background()
	h.portal.LoadAdmin(ctx, v)

	notice, ok, err := h.portal.CreateEvent(ctx, v, eventForm())
	if err != nil || !ok || notice.Text != "Event created successfully!" {
		t.Fatalf("unexpected result %+v ok=%v err=%v", notice, ok, err)
	}

	stored := h.fake.Events()
	if len(stored) != 1 || stored[0].Title != "Hackathon" || stored[0].Image != model.DefaultEventImage {
		t.Fatalf("unexpected stored events %+v", stored)
	}

	page := h.portal.AdminPage(v, AdminView{})
	if len(page.Events) != 1 || page.Stats.TotalEvents != 1 {
		t.Fatalf("expected reloaded events, got %+v", page.Stats)
	}
}

func TestCreateEventRequiresFields(t *testing.T) {
	h := newHarness(t)
	v := h.signIn(t, "admin", user.RoleStaff)

	form := eventForm()
	form.Input.Venue = " "
	notice, ok, _ := h.portal.CreateEvent(context.Background(), v, form)
	if ok || notice.Text != "Please fill in all required fields" {
		t.Fatalf("unexpected result %+v", notice)
	}
	if hits := h.fake.Hits(http.MethodPost, "/api/events"); hits != 0 {
		t.Fatalf("expected no create request, got %d", hits)
	}
}

func TestCreateEventWithCover(t *testing.T) {
	covers := &memoryCovers{}
	h := newHarness(t, WithCoverStore(covers))
	v := h.signIn(t, "admin", user.RoleStaff)
	ctx := context.Background()

	form := eventForm()
	form.Cover = &CoverUpload{
		Cover: storage.Cover{Name: "poster.png", MimeType: "image/png", Size: 4},
		Body:  strings.NewReader("data"),
	}
	if _, ok, err := h.portal.CreateEvent(ctx, v, form); !ok || err != nil {
		t.Fatalf("expected create to succeed, err=%v", err)
	}
	if got := h.fake.Events()[0].Image; got != "https://cdn.campus.edu/covers/poster.png" {
		t.Fatalf("expected uploaded cover URL, got %s", got)
	}

	h.fake.Fail(http.MethodPost, "/api/events", http.StatusBadRequest)
	form.Cover = &CoverUpload{
		Cover: storage.Cover{Name: "second.png", MimeType: "image/png", Size: 4},
		Body:  strings.NewReader("data"),
	}
	notice, ok, _ := h.portal.CreateEvent(ctx, v, form)
	if ok || notice.Text != "injected failure" {
		t.Fatalf("expected rejection, got %+v", notice)
	}
	if len(covers.deleted) != 1 || covers.deleted[0] != "covers/second.png" {
		t.Fatalf("expected orphaned cover removed, got %v", covers.deleted)
	}
}

func TestCreateEventRejectsBadCover(t *testing.T) {
	h := newHarness(t, WithCoverStore(&memoryCovers{}))
	v := h.signIn(t, "admin", user.RoleStaff)

	form := eventForm()
	form.Cover = &CoverUpload{
		Cover: storage.Cover{Name: "notes.txt", MimeType: "text/plain", Size: 4},
		Body:  strings.NewReader("data"),
	}
	notice, ok, _ := h.portal.CreateEvent(context.Background(), v, form)
	if ok || notice.Text != "Cover image must be a JPEG, PNG, WebP or GIF file." {
		t.Fatalf("unexpected result %+v", notice)
	}
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	h := newHarness(t)
	robotics, _ := h.seedEvents()
	v := h.signIn(t, "admin", user.RoleStaff)
	ctx := context.Background()
	h.portal.LoadAdmin(ctx, v)

	form, ok := h.portal.EditForm(v, robotics.ID)
	if !ok || !form.Editing || form.Values.Title != "Robotics Expo" {
		t.Fatalf("unexpected edit form %+v", form)
	}

	in := form.Values
	in.Venue = "Auditorium"
	notice, ok, err := h.portal.UpdateEvent(ctx, v, robotics.ID, EventForm{Input: in})
	if err != nil || !ok || notice.Text != "Event updated successfully!" {
		t.Fatalf("unexpected update result %+v", notice)
	}
	if form, _ := h.portal.EditForm(v, robotics.ID); form.Values.Venue != "Auditorium" {
		t.Fatalf("expected reloaded venue, got %s", form.Values.Venue)
	}

	h.fake.Fail(http.MethodDelete, "/api/events/"+robotics.ID, http.StatusInternalServerError)
	notice, _ = h.portal.DeleteEvent(ctx, v, robotics.ID)
	if notice.Text != "Failed to delete event" {
		t.Fatalf("expected fixed failure text, got %+v", notice)
	}

	h.fake.Fail(http.MethodDelete, "/api/events/"+robotics.ID, 0)
	notice, _ = h.portal.DeleteEvent(ctx, v, robotics.ID)
	if notice.Text != "Event deleted successfully!" {
		t.Fatalf("unexpected delete result %+v", notice)
	}
	if _, ok := h.portal.EditForm(v, robotics.ID); ok {
		t.Fatalf("expected event gone from cache")
	}
}

func TestParticipants(t *testing.T) {
	h := newHarness(t)
	robotics, derby := h.seedEvents()
	student := h.signIn(t, "student", user.RoleStudent)
	ctx := context.Background()
	if _, _, err := h.portal.Register(ctx, student, robotics.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := h.signIn(t, "admin", user.RoleStaff)
	h.portal.LoadAdmin(ctx, admin)

	page, ok := h.portal.Participants(admin, robotics.ID)
	if !ok || len(page.Lines) != 1 || page.Lines[0] != "Test student (student@campus.edu)" {
		t.Fatalf("unexpected participants %+v", page)
	}
	if page, _ := h.portal.Participants(admin, derby.ID); len(page.Lines) != 0 {
		t.Fatalf("expected no participants, got %v", page.Lines)
	}
	if _, ok := h.portal.Participants(admin, "missing"); ok {
		t.Fatalf("expected unknown event")
	}

	stats := h.portal.AdminPage(admin, AdminView{}).Stats
	if stats.TotalRegistrations != 1 || stats.TotalStudents != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAnnouncements(t *testing.T) {
	h := newHarness(t)
	v := h.signIn(t, "admin", user.RoleStaff)
	ctx := context.Background()

	notice, ok, _ := h.portal.PostAnnouncement(ctx, v, "Exams", " ")
	if ok || notice.Text != "Please fill in both title and message" {
		t.Fatalf("unexpected validation result %+v", notice)
	}

	notice, ok, err := h.portal.PostAnnouncement(ctx, v, "Exams", "Start **Monday**")
	if err != nil || !ok || notice.Text != "Announcement posted successfully!" {
		t.Fatalf("unexpected post result %+v", notice)
	}

	page := h.portal.AdminPage(v, AdminView{})
	if len(page.Announcements) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(page.Announcements))
	}

	if _, err := h.portal.DeleteAnnouncement(ctx, v, page.Announcements[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.portal.AdminPage(v, AdminView{}).Announcements; len(got) != 0 {
		t.Fatalf("expected announcement removed, got %d", len(got))
	}
}
