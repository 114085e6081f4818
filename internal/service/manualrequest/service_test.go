package manualrequest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nova-Gear/presence-api/internal/domain/manualrequest"
	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

// --- fakes ---

type fakeRequestRepo struct {
	requests  map[string]manualrequest.Request
	companyOf map[string]*string
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:  make(map[string]manualrequest.Request),
		companyOf: make(map[string]*string),
	}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *manualrequest.Request) error {
	stored := *r
	stored.CompanyID = f.companyOf[r.UserID]
	f.requests[r.ID] = stored
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string, scope user.Scope) (manualrequest.Request, error) {
	r, ok := f.requests[id]
	if !ok || !scope.AllowsUser(r.UserID, r.CompanyID) {
		return manualrequest.Request{}, manualrequest.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) List(_ context.Context, filter manualrequest.ListFilter, scope user.Scope) ([]manualrequest.Request, int, error) {
	var out []manualrequest.Request
	for _, r := range f.requests {
		if !scope.AllowsUser(r.UserID, r.CompanyID) {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRequestRepo) HasOverlappingPending(_ context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	for id, r := range f.requests {
		if id == excludeID {
			continue
		}
		if r.UserID == userID && r.Status == manualrequest.StatusPending &&
			!r.StartDate.After(end) && !r.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) UpdateIfPending(_ context.Context, req *manualrequest.Request) error {
	r, ok := f.requests[req.ID]
	if !ok || r.Status != manualrequest.StatusPending {
		return manualrequest.ErrAlreadyProcessed
	}
	r.Type = req.Type
	r.StartDate = req.StartDate
	r.EndDate = req.EndDate
	r.Reason = req.Reason
	r.UpdatedAt = req.UpdatedAt
	f.requests[req.ID] = r
	return nil
}

func (f *fakeRequestRepo) DeleteIfPending(_ context.Context, id string) error {
	r, ok := f.requests[id]
	if !ok || r.Status != manualrequest.StatusPending {
		return manualrequest.ErrAlreadyProcessed
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) UpdateStatusIfPending(_ context.Context, id string, status manualrequest.RequestStatus, approvedBy string, approvedAt time.Time, notes *string) error {
	r, ok := f.requests[id]
	if !ok || r.Status != manualrequest.StatusPending {
		return manualrequest.ErrAlreadyProcessed
	}
	r.Status = status
	r.ApprovedBy = &approvedBy
	r.ApprovedAt = &approvedAt
	r.ApprovalNotes = notes
	f.requests[id] = r
	return nil
}

type fakePresenceRepo struct {
	records   []presence.Presence
	createErr error
}

func (f *fakePresenceRepo) Create(_ context.Context, p *presence.Presence) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, *p)
	return nil
}

func (f *fakePresenceRepo) GetByID(context.Context, string, user.Scope) (presence.Presence, error) {
	return presence.Presence{}, presence.ErrPresenceNotFound
}

func (f *fakePresenceRepo) GetEventOn(context.Context, string, time.Time, presence.EventType) (presence.Presence, error) {
	return presence.Presence{}, presence.ErrPresenceNotFound
}

func (f *fakePresenceRepo) HasEventOn(_ context.Context, userID string, date time.Time) (bool, error) {
	for _, p := range f.records {
		if p.UserID == userID && p.PresenceDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePresenceRepo) List(context.Context, presence.ListFilter, user.Scope) ([]presence.Presence, int, error) {
	return nil, 0, nil
}

func (f *fakePresenceRepo) Delete(context.Context, string, user.Scope) error { return nil }

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeFileService struct {
	uploadErr error
}

func (f *fakeFileService) UploadPresenceProof(_ context.Context, userID string, _ time.Time, _ io.Reader, filename string, eventType string) (string, error) {
	return "presence/" + userID + "/" + filename, f.uploadErr
}

func (f *fakeFileService) UploadRequestAttachment(_ context.Context, userID string, _ io.Reader, filename string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "requests/" + userID + "/" + filename, nil
}

func (f *fakeFileService) DeleteFile(context.Context, string) error { return nil }

func (f *fakeFileService) GetFileURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files/" + path, nil
}

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- fixture ---

type fixture struct {
	svc          *requestServiceImpl
	requestRepo  *fakeRequestRepo
	presenceRepo *fakePresenceRepo
	tx           *fakeTxRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	requestRepo := newFakeRequestRepo()
	requestRepo.companyOf["emp-1"] = strPtr("co-1")
	requestRepo.companyOf["emp-2"] = strPtr("co-2")

	presenceRepo := &fakePresenceRepo{}
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"emp-1":      {ID: "emp-1", CompanyID: strPtr("co-1"), Name: "Asep", Role: user.RoleEmployee, IsActive: true},
		"admin-co-1": {ID: "admin-co-1", CompanyID: strPtr("co-1"), Name: "Ibu Ratna", Role: user.RoleCompanyAdmin, IsActive: true},
	}}
	tx := &fakeTxRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewRequestService(requestRepo, presenceRepo, userRepo, &fakeFileService{}, tx, logger).(*requestServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, requestRepo: requestRepo, presenceRepo: presenceRepo, tx: tx}
}

func employee(id, companyID string) user.Principal {
	return user.Principal{UserID: id, CompanyID: strPtr(companyID), Role: user.RoleEmployee}
}

func companyAdmin(companyID string) user.Principal {
	return user.Principal{UserID: "admin-" + companyID, CompanyID: strPtr(companyID), Role: user.RoleCompanyAdmin}
}

func sickRequest(start, end string) manualrequest.SubmitRequest {
	return manualrequest.SubmitRequest{
		Type:      "sick",
		StartDate: start,
		EndDate:   end,
		Reason:    "flu",
	}
}

// --- tests ---

func TestSubmitCreatesPending(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Submit(context.Background(), employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	assert.Equal(t, manualrequest.StatusPending, result.Status)
	assert.Equal(t, "2026-03-09", result.StartDate)
	assert.Equal(t, manualrequest.TypeSick, result.Type)
}

func TestSubmitRejectsFutureDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	// fixture clock: 2026-03-10
	var errs validator.ValidationErrors

	_, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-11", "2026-03-12"), nil)
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "start_date")

	// a past start does not excuse a future end
	_, err = f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-15"), nil)
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "end_date")
	assert.NotContains(t, errs.ToMap(), "start_date")

	// today itself is fine on both ends
	_, err = f.svc.Submit(ctx, principal, sickRequest("2026-03-10", "2026-03-10"), nil)
	assert.NoError(t, err)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	req := sickRequest("2026-03-09", "2026-03-10")
	req.Type = "holiday"
	_, err := f.svc.Submit(ctx, principal, req, nil)
	assert.Error(t, err)

	req = sickRequest("2026-03-10", "2026-03-09")
	_, err = f.svc.Submit(ctx, principal, req, nil)
	assert.Error(t, err)

	req = sickRequest("2026-03-09", "2026-03-10")
	req.Reason = ""
	_, err = f.svc.Submit(ctx, principal, req, nil)
	assert.Error(t, err)
}

func TestSubmitRejectsOverlappingPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	_, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-05", "2026-03-08"), nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, principal, sickRequest("2026-03-08", "2026-03-09"), nil)
	assert.ErrorIs(t, err, manualrequest.ErrOverlappingRequest)

	// disjoint period is fine
	_, err = f.svc.Submit(ctx, principal, sickRequest("2026-03-01", "2026-03-02"), nil)
	assert.NoError(t, err)
}

func TestSubmitWithAttachment(t *testing.T) {
	f := newFixture(t)

	attachment := &manualrequest.Attachment{Reader: strings.NewReader("pdf"), Filename: "note.pdf"}
	result, err := f.svc.Submit(context.Background(), employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), attachment)
	require.NoError(t, err)
	require.NotNil(t, result.AttachmentURL)
	assert.Equal(t, "requests/emp-1/note.pdf", *result.AttachmentURL)
}

func TestApproveMaterializesCheckin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	result, err := f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, manualrequest.StatusApproved, result.Status)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, f.presenceRepo.records, 1)
	record := f.presenceRepo.records[0]
	assert.Equal(t, "emp-1", record.UserID)
	assert.Equal(t, presence.EventCheckin, record.Type)
	assert.Equal(t, presence.SourceManual, record.Source)
	assert.Equal(t, 8, record.PresenceTime.Hour())
	assert.Equal(t, "2026-03-09", record.PresenceDate.Format("2006-01-02"))
	require.NotNil(t, record.Notes)
	assert.Equal(t, "Manual entry approved by Ibu Ratna. Reason: flu", *record.Notes)
}

func TestApproveRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, employee("emp-1", "co-1"), submitted.ID, manualrequest.DecisionRequest{})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)
}

func TestApproveOutOfScopeLooksMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-2", "co-2"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	assert.ErrorIs(t, err, manualrequest.ErrRequestNotFound)
}

func TestApproveTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	assert.ErrorIs(t, err, manualrequest.ErrAlreadyProcessed)
}

func TestApproveBlockedByExistingPresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.presenceRepo.records = append(f.presenceRepo.records, presence.Presence{
		UserID:       "emp-1",
		Type:         presence.EventCheckin,
		PresenceDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})

	submitted, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	assert.ErrorIs(t, err, manualrequest.ErrPresenceExists)
}

func TestRejectLeavesNoPresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	notes := "no supporting document"
	result, err := f.svc.Reject(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, manualrequest.StatusRejected, result.Status)
	assert.Equal(t, "no supporting document", *result.ApprovalNotes)
	assert.Empty(t, f.presenceRepo.records)
}

func TestUpdatePendingByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	submitted, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	reason := "flu, doctor confirmed"
	start := "2026-03-08"
	result, err := f.svc.Update(ctx, principal, submitted.ID, manualrequest.UpdateRequest{
		StartDate: &start,
		Reason:    &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", result.StartDate)
	assert.Equal(t, "2026-03-10", result.EndDate)
	assert.Equal(t, reason, result.Reason)
	assert.Equal(t, manualrequest.StatusPending, result.Status)
}

func TestUpdateOverlapExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	_, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-05", "2026-03-06"), nil)
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	// keeping its own period is not a collision
	end := "2026-03-10"
	_, err = f.svc.Update(ctx, principal, second.ID, manualrequest.UpdateRequest{EndDate: &end})
	require.NoError(t, err)

	// colliding with the other pending request still is
	start := "2026-03-06"
	_, err = f.svc.Update(ctx, principal, second.ID, manualrequest.UpdateRequest{StartDate: &start})
	assert.ErrorIs(t, err, manualrequest.ErrOverlappingRequest)
}

func TestUpdateOthersRequestLooksMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, employee("emp-2", "co-2"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	reason := "rewritten"
	_, err = f.svc.Update(ctx, employee("emp-1", "co-1"), submitted.ID, manualrequest.UpdateRequest{Reason: &reason})
	assert.ErrorIs(t, err, manualrequest.ErrRequestNotFound)

	// admins cannot edit either; editing is the requester's alone
	_, err = f.svc.Update(ctx, companyAdmin("co-2"), submitted.ID, manualrequest.UpdateRequest{Reason: &reason})
	assert.ErrorIs(t, err, manualrequest.ErrRequestNotFound)
}

func TestUpdateRejectsFutureDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	submitted, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	var errs validator.ValidationErrors

	end := "2026-03-15"
	_, err = f.svc.Update(ctx, principal, submitted.ID, manualrequest.UpdateRequest{EndDate: &end})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "end_date")

	start := "2026-03-11"
	_, err = f.svc.Update(ctx, principal, submitted.ID, manualrequest.UpdateRequest{StartDate: &start, EndDate: &start})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "start_date")
}

func TestUpdateAfterDecisionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	submitted, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	require.NoError(t, err)

	reason := "too late"
	_, err = f.svc.Update(ctx, principal, submitted.ID, manualrequest.UpdateRequest{Reason: &reason})
	assert.ErrorIs(t, err, manualrequest.ErrAlreadyProcessed)
}

func TestWithdrawPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	submitted, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Withdraw(ctx, principal, submitted.ID))

	_, total, err := f.svc.MyRequests(ctx, principal, manualrequest.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	err = f.svc.Withdraw(ctx, principal, submitted.ID)
	assert.ErrorIs(t, err, manualrequest.ErrRequestNotFound)
}

func TestWithdrawAfterDecisionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := employee("emp-1", "co-1")

	submitted, err := f.svc.Submit(ctx, principal, sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, companyAdmin("co-1"), submitted.ID, manualrequest.DecisionRequest{})
	require.NoError(t, err)

	err = f.svc.Withdraw(ctx, principal, submitted.ID)
	assert.ErrorIs(t, err, manualrequest.ErrAlreadyProcessed)
}

func TestMyRequestsOnlyOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, employee("emp-2", "co-2"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	requests, total, err := f.svc.MyRequests(ctx, employee("emp-1", "co-1"), manualrequest.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, requests, 1)
	assert.Equal(t, "emp-1", requests[0].UserID)
}

func TestListScopedToCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, employee("emp-1", "co-1"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, employee("emp-2", "co-2"), sickRequest("2026-03-09", "2026-03-10"), nil)
	require.NoError(t, err)

	_, _, err = f.svc.List(ctx, employee("emp-1", "co-1"), manualrequest.ListFilter{})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	requests, total, err := f.svc.List(ctx, companyAdmin("co-1"), manualrequest.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "emp-1", requests[0].UserID)

	all, total, err := f.svc.List(ctx, user.Principal{UserID: "root", Role: user.RoleSuperAdmin}, manualrequest.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}
