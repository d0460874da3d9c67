package http

import (
	"fmt"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// --- Request DTOs ---

type createTaskReq struct {
	AssigneeID               string `json:"assigneeId" binding:"required"`
	Title                    string `json:"title"      binding:"required,min=1,max=255"`
	DueDate                  string `json:"dueDate"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes" binding:"omitempty,gte=0"`
	LoggedDurationMinutes    int    `json:"loggedDurationMinutes"    binding:"omitempty,gte=0"`

	dueDate time.Time
}

func (r *createTaskReq) validate() error {
	if r.DueDate == "" {
		return nil
	}
	d, err := parseDate(r.DueDate)
	if err != nil {
		return err
	}
	r.dueDate = d
	return nil
}

func (r createTaskReq) toInput() scheduling.CreateTaskInput {
	return scheduling.CreateTaskInput{
		AssigneeID:               r.AssigneeID,
		Title:                    r.Title,
		DueDate:                  r.dueDate,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		LoggedDurationMinutes:    r.LoggedDurationMinutes,
	}
}

// ---

type updateTaskReq struct {
	ID                       string  `json:"-"` // populated from URI param
	Title                    *string `json:"title"   binding:"omitempty,min=1,max=255"`
	DueDate                  *string `json:"dueDate"`
	EstimatedDurationMinutes *int    `json:"estimatedDurationMinutes" binding:"omitempty,gte=0"`
	LoggedDurationMinutes    *int    `json:"loggedDurationMinutes"    binding:"omitempty,gte=0"`

	dueDate *time.Time
}

func (r *updateTaskReq) validate() error {
	if r.DueDate == nil {
		return nil
	}
	// Empty string clears the due date; the task falls out of the engine.
	if *r.DueDate == "" {
		r.dueDate = &time.Time{}
		return nil
	}
	d, err := parseDate(*r.DueDate)
	if err != nil {
		return err
	}
	r.dueDate = &d
	return nil
}

func (r updateTaskReq) toInput() scheduling.UpdateTaskInput {
	return scheduling.UpdateTaskInput{
		ID:                       r.ID,
		Title:                    r.Title,
		DueDate:                  r.dueDate,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		LoggedDurationMinutes:    r.LoggedDurationMinutes,
	}
}

// ---

type pinTaskReq struct {
	ID        string `json:"-"`
	Date      string `json:"date"      binding:"required"`
	StartTime string `json:"startTime" binding:"required"`

	date time.Time
}

func (r *pinTaskReq) validate() error {
	d, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	r.date = d
	return nil
}

func (r pinTaskReq) toInput() scheduling.PinTaskInput {
	return scheduling.PinTaskInput{
		ID:              r.ID,
		TargetDate:      r.date,
		TargetStartTime: r.StartTime,
	}
}

// ---

type slotsReq struct {
	AssigneeID      string `form:"assigneeId" binding:"required"`
	Date            string `form:"date"       binding:"required"`
	DurationMinutes int    `form:"durationMinutes"`

	date time.Time
}

func (r *slotsReq) validate() error {
	d, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	r.date = d
	return nil
}

func (r slotsReq) toInput() scheduling.SlotsInput {
	return scheduling.SlotsInput{
		AssigneeID:      r.AssigneeID,
		Date:            r.date,
		DurationMinutes: r.DurationMinutes,
	}
}

// ---

type validatePlacementReq struct {
	AssigneeID      string `json:"assigneeId" binding:"required"`
	Date            string `json:"date"       binding:"required"`
	StartTime       string `json:"startTime"  binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,gt=0"`
	ExcludeTaskID   string `json:"excludeTaskId"`

	date time.Time
}

func (r *validatePlacementReq) validate() error {
	d, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	r.date = d
	return nil
}

func (r validatePlacementReq) toInput() scheduling.PlacementInput {
	return scheduling.PlacementInput{
		AssigneeID:      r.AssigneeID,
		Date:            r.date,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		ExcludeTaskID:   r.ExcludeTaskID,
	}
}

// ---

type createEventReq struct {
	AssigneeID string `json:"assigneeId" binding:"required"`
	Title      string `json:"title"      binding:"max=255"`
	Date       string `json:"date"       binding:"required"`
	StartTime  string `json:"startTime"  binding:"required"`
	EndTime    string `json:"endTime"    binding:"required"`

	date time.Time
}

func (r *createEventReq) validate() error {
	d, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	r.date = d
	return nil
}

func (r createEventReq) toInput() scheduling.CreateEventInput {
	return scheduling.CreateEventInput{
		AssigneeID: r.AssigneeID,
		Title:      r.Title,
		Date:       r.date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}

// ---

type updateEventReq struct {
	ID        string  `json:"-"`
	Title     *string `json:"title" binding:"omitempty,max=255"`
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`

	date *time.Time
}

func (r *updateEventReq) validate() error {
	if r.Date == nil {
		return nil
	}
	d, err := parseDate(*r.Date)
	if err != nil {
		return err
	}
	r.date = &d
	return nil
}

func (r updateEventReq) toInput() scheduling.UpdateEventInput {
	return scheduling.UpdateEventInput{
		ID:        r.ID,
		Title:     r.Title,
		Date:      r.date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// ---

type syncEventsReq struct {
	AssigneeID string `json:"assigneeId" binding:"required"`
	From       string `json:"from"       binding:"required"`
	To         string `json:"to"         binding:"required"`

	from time.Time
	to   time.Time
}

func (r *syncEventsReq) validate() error {
	from, err := parseDate(r.From)
	if err != nil {
		return err
	}
	to, err := parseDate(r.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("sync range %s..%s is inverted", r.From, r.To)
	}
	r.from, r.to = from, to
	return nil
}

func (r syncEventsReq) toInput() scheduling.SyncEventsInput {
	return scheduling.SyncEventsInput{
		AssigneeID: r.AssigneeID,
		From:       r.from,
		To:         r.to,
	}
}

// --- Response DTOs ---

type taskResp struct {
	ID                       string    `json:"id"`
	AssigneeID               string    `json:"assigneeId"`
	Title                    string    `json:"title"`
	DueDate                  string    `json:"dueDate,omitempty"`
	EstimatedDurationMinutes int       `json:"estimatedDurationMinutes"`
	LoggedDurationMinutes    int       `json:"loggedDurationMinutes"`
	ScheduledDate            string    `json:"scheduledDate,omitempty"`
	ScheduledStartTime       string    `json:"scheduledStartTime,omitempty"`
	Pinned                   bool      `json:"pinned"`
	Completed                bool      `json:"completed"`
	Version                  int64     `json:"version"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

func newTaskResp(t model.Task) taskResp {
	resp := taskResp{
		ID:                       t.ID,
		AssigneeID:               t.AssigneeID,
		Title:                    t.Title,
		EstimatedDurationMinutes: t.EstimatedDuration,
		LoggedDurationMinutes:    t.LoggedDuration,
		ScheduledStartTime:       t.ScheduledStartTime,
		Pinned:                   t.Pinned,
		Completed:                t.Completed,
		Version:                  t.Version,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
	if !t.DueDate.IsZero() {
		resp.DueDate = t.DueDate.Format(dateLayout)
	}
	if t.ScheduledDate != nil {
		resp.ScheduledDate = t.ScheduledDate.Format(dateLayout)
	}
	return resp
}

type taskDetailResp struct {
	Task taskResp `json:"task"`
}

func (h *handler) newTaskDetailResp(out scheduling.TaskOutput) taskDetailResp {
	return taskDetailResp{Task: newTaskResp(out.Task)}
}

type scheduleResp struct {
	TaskID             string `json:"taskId"`
	Scheduled          bool   `json:"scheduled"`
	ScheduledDate      string `json:"scheduledDate,omitempty"`
	ScheduledStartTime string `json:"scheduledStartTime,omitempty"`
	Version            int64  `json:"version"`
}

func newScheduleResp(out scheduling.ScheduleOutput) scheduleResp {
	resp := scheduleResp{
		TaskID:             out.TaskID,
		Scheduled:          out.Scheduled,
		ScheduledStartTime: out.ScheduledStartTime,
		Version:            out.Version,
	}
	if out.Scheduled && !out.ScheduledDate.IsZero() {
		resp.ScheduledDate = out.ScheduledDate.Format(dateLayout)
	}
	return resp
}

func newScheduleResps(outs []scheduling.ScheduleOutput) []scheduleResp {
	resps := make([]scheduleResp, len(outs))
	for i, out := range outs {
		resps[i] = newScheduleResp(out)
	}
	return resps
}

type slotsResp struct {
	Slots []model.ScheduleSlot `json:"slots"`
}

type placementResp struct {
	Valid     bool                 `json:"valid"`
	Conflicts []model.ScheduleSlot `json:"conflicts,omitempty"`
}

func (h *handler) newPlacementResp(out scheduling.PlacementOutput) placementResp {
	return placementResp{Valid: out.Valid, Conflicts: out.Conflicts}
}

type eventResp struct {
	ID         string `json:"id"`
	AssigneeID string `json:"assigneeId"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	ExternalID string `json:"externalId,omitempty"`
}

func newEventResp(e model.Event) eventResp {
	return eventResp{
		ID:         e.ID,
		AssigneeID: e.AssigneeID,
		Title:      e.Title,
		Date:       e.Date.Format(dateLayout),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		ExternalID: e.ExternalID,
	}
}

type eventMutationResp struct {
	Event       eventResp      `json:"event"`
	Rescheduled []scheduleResp `json:"rescheduled"`
}

func (h *handler) newEventMutationResp(out scheduling.EventOutput) eventMutationResp {
	return eventMutationResp{
		Event:       newEventResp(out.Event),
		Rescheduled: newScheduleResps(out.Rescheduled),
	}
}

type syncEventsResp struct {
	Imported    int            `json:"imported"`
	Rescheduled []scheduleResp `json:"rescheduled"`
}

func (h *handler) newSyncEventsResp(out scheduling.SyncEventsOutput) syncEventsResp {
	return syncEventsResp{
		Imported:    out.Imported,
		Rescheduled: newScheduleResps(out.Rescheduled),
	}
}
