package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/common"
	"contactdesk/internal/notif"
)

const unknownProvenance = "unknown"

// SubmissionUsecase is what the HTTP layer needs from the service
type SubmissionUsecase interface {
	Create(ctx context.Context, in SubmissionInput, meta RequestMeta) (*Submission, error)
	List(ctx context.Context, q ListQuery) (*Page, error)
	Get(ctx context.Context, id string) (*Submission, error)
	MarkRead(ctx context.Context, id string) (*Submission, error)
	UpdateStatus(ctx context.Context, id, status string) (*Submission, error)
	Update(ctx context.Context, id string, upd SubmissionUpdate) (*Submission, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
}

type Notifier interface {
	Notify(event notif.SubmissionEvent)
}

type SubmissionService struct {
	repo     SubmissionRepository
	notifier Notifier
	validate *validator.Validate
	now      func() time.Time
}

func NewSubmissionService(repo SubmissionRepository, notifier Notifier) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		notifier: notifier,
		validate: common.NewValidator(),
		now:      time.Now,
	}
}

// WithClock sets the time source used for stats windows and event stamps.
// The location of the returned times decides what "today" means.
func (s *SubmissionService) WithClock(now func() time.Time) *SubmissionService {
	s.now = now
	return s
}

func (s *SubmissionService) Create(ctx context.Context, in SubmissionInput, meta RequestMeta) (*Submission, error) {
	in = normalizeInput(in)
	if err := common.ValidateStruct(s.validate, in); err != nil {
		return nil, err
	}

	sub := &Submission{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		Read:      false,
		Status:    common.StatusNew,
		IPAddress: provenance(meta.IPAddress),
		UserAgent: provenance(meta.UserAgent),
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, err
	}

	log.Info().Str("submission_id", sub.ID.Hex()).Msg("contact submission stored")
	s.publish(notif.EventCreated, sub)
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, q ListQuery) (*Page, error) {
	q = normalizeQuery(q)
	filter := SubmissionFilter{Search: q.Search, Read: q.Status}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items:      []Submission{},
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages(total, q.PerPage),
	}
	// past the last page; also keeps the skip below total so it cannot overflow
	if int64(q.Page-1) > lastPageIndex(total, q.PerPage) {
		return page, nil
	}

	items, err := s.repo.Find(ctx, filter, FindOptions{
		SortBy: q.SortBy,
		Desc:   q.SortOrder != "asc",
		Skip:   int64(q.Page-1) * int64(q.PerPage),
		Limit:  int64(q.PerPage),
	})
	if err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*Submission, error) {
	return s.repo.FindByID(ctx, id)
}

// MarkRead sets read=true. Marking an already read submission succeeds.
func (s *SubmissionService) MarkRead(ctx context.Context, id string) (*Submission, error) {
	read := true
	sub, err := s.repo.Update(ctx, id, FieldChanges{Read: &read})
	if err != nil {
		return nil, err
	}
	s.publish(notif.EventRead, sub)
	return sub, nil
}

func (s *SubmissionService) UpdateStatus(ctx context.Context, id, status string) (*Submission, error) {
	st, ok := common.ParseStatus(status)
	if !ok {
		return nil, common.NewValidationError(statusFieldError())
	}

	sub, err := s.repo.Update(ctx, id, FieldChanges{Status: &st})
	if err != nil {
		return nil, err
	}
	s.publish(notif.EventStatusChanged, sub)
	return sub, nil
}

// Update applies an admin edit. Every provided field is validated with the
// same rules as the public form, and read can only be set to true.
func (s *SubmissionService) Update(ctx context.Context, id string, upd SubmissionUpdate) (*Submission, error) {
	changes, err := s.validateUpdate(upd)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	s.publish(notif.EventUpdated, sub)
	return sub, nil
}

func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(notif.SubmissionEvent{Type: notif.EventDeleted, SubmissionID: id, At: s.now().UTC()})
	return nil
}

// Stats runs five independent counts. Under concurrent writes the numbers
// may come from slightly different moments.
func (s *SubmissionService) Stats(ctx context.Context) (*Stats, error) {
	today, week, month := statWindows(s.now())

	var (
		st  Stats
		err error
	)
	if st.Total, err = s.repo.Count(ctx, SubmissionFilter{}); err != nil {
		return nil, err
	}
	if st.Today, err = s.repo.CountCreatedSince(ctx, today); err != nil {
		return nil, err
	}
	if st.Week, err = s.repo.CountCreatedSince(ctx, week); err != nil {
		return nil, err
	}
	if st.Month, err = s.repo.CountCreatedSince(ctx, month); err != nil {
		return nil, err
	}
	if st.Unread, err = s.repo.CountUnread(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SubmissionService) publish(t notif.EventType, sub *Submission) {
	s.notify(notif.SubmissionEvent{
		Type:         t,
		SubmissionID: sub.ID.Hex(),
		Name:         sub.Name,
		Email:        sub.Email,
		Status:       sub.Status,
		At:           s.now().UTC(),
	})
}

func (s *SubmissionService) notify(event notif.SubmissionEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event)
}

// statWindows returns local midnight today, the most recent Sunday 00:00 and
// the first of the month 00:00, all in now's location.
func statWindows(now time.Time) (today, week, month time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	today = time.Date(y, m, d, 0, 0, 0, 0, loc)
	week = time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
	month = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return today, week, month
}

func normalizeInput(in SubmissionInput) SubmissionInput {
	return SubmissionInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
	}
}

func normalizeQuery(q ListQuery) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PerPage <= 0:
		q.PerPage = DefaultPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}
	if q.Status == "" {
		q.Status = common.ReadFilterAll
	}
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func totalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// lastPageIndex is the zero-based index of the final page. An empty result
// still has page one.
func lastPageIndex(total int64, perPage int) int64 {
	if total <= 0 {
		return 0
	}
	return (total - 1) / int64(perPage)
}

func provenance(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return unknownProvenance
	}
	return v
}

func statusFieldError() common.FieldError {
	names := make([]string, len(common.AllStatuses))
	for i, st := range common.AllStatuses {
		names[i] = st.String()
	}
	return common.FieldError{
		Field:   "status",
		Message: "status must be one of: " + strings.Join(names, ", "),
	}
}

// validateUpdate trims the provided fields, runs the validate tags over them
// and then applies the rules that only exist for edits.
func (s *SubmissionService) validateUpdate(upd SubmissionUpdate) (FieldChanges, error) {
	upd.Name = trimmed(upd.Name)
	upd.Email = trimmed(upd.Email)
	upd.Phone = trimmed(upd.Phone)
	upd.Message = trimmed(upd.Message)
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		upd.Email = &email
	}

	verr := &common.ValidationError{}
	if err := common.ValidateStruct(s.validate, upd); err != nil {
		if !errors.As(err, &verr) {
			return FieldChanges{}, err
		}
	}

	changes := FieldChanges{
		Name:    upd.Name,
		Email:   upd.Email,
		Phone:   upd.Phone,
		Message: upd.Message,
	}
	if upd.Read != nil {
		if !*upd.Read {
			verr.Add("read", "a submission cannot be marked unread")
		} else {
			changes.Read = upd.Read
		}
	}
	if upd.Status != nil {
		st, ok := common.ParseStatus(*upd.Status)
		if !ok {
			verr.Fields = append(verr.Fields, statusFieldError())
		} else {
			changes.Status = &st
		}
	}

	if verr.HasErrors() {
		return FieldChanges{}, verr
	}
	if changes.IsEmpty() {
		return FieldChanges{}, common.NewValidationError(common.FieldError{Message: "no updatable fields provided"})
	}
	return changes, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
