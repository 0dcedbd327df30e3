package api

import (
	"fmt"
	"net/http"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs for API (Data Transfer Objects) ---

// Wire plan kinds as clients send them.
const (
	planTypeOnDemand = "On Demand"
	planTypeProgram  = "Program"
)

// ExerciseSlotRequest is one workout-level slot: a rest, a single exercise
// prescription, or a superset of members. The same scalar fields describe a
// standalone prescription and a superset member.
type ExerciseSlotRequest struct {
	RowID     string                `json:"row_id,omitempty"` // existing workout_exercises row to overwrite
	ID        string                `json:"id,omitempty"`     // exercise id
	IsRest    bool                  `json:"is_rest"`
	Type      string                `json:"type,omitempty"` // "duration" | "sets"
	Min       *int                  `json:"min,omitempty"`
	Sec       *int                  `json:"sec,omitempty"`
	Set       *int                  `json:"set,omitempty"`
	Rep       *int                  `json:"rep,omitempty"`
	RestMin   *int                  `json:"rest_min,omitempty"`
	RestSec   *int                  `json:"rest_sec,omitempty"`
	IsStag    bool                  `json:"is_stag,omitempty"`
	RepsArray []int                 `json:"repsArray,omitempty"`
	Superset  []ExerciseSlotRequest `json:"superset,omitempty"`
}

// WorkoutSlotRequest is one plan-level slot: a rest day, a reference to an
// existing workout, or an inline workout defined by its exercise slots.
type WorkoutSlotRequest struct {
	RowID     string                `json:"row_id,omitempty"` // existing plan_workouts row to overwrite
	WorkoutID string                `json:"workout_id,omitempty"`
	IsRest    bool                  `json:"is_rest"`
	Title     string                `json:"title,omitempty"` // inline workouts only
	Phase     *int                  `json:"phase,omitempty"`
	Week      *int                  `json:"week,omitempty"`
	Day       *int                  `json:"day,omitempty"`
	Exercises []ExerciseSlotRequest `json:"exercises,omitempty"`
}

// PlanRequest is the create/update payload for a plan.
type PlanRequest struct {
	Title              string               `json:"title" binding:"required"`
	Type               string               `json:"type" binding:"required"`
	Visibility         string               `json:"visibility,omitempty"`
	PhaseCount         *int                 `json:"phase_count,omitempty"`
	WeekCount          *int                 `json:"week_count,omitempty"`
	Workouts           []WorkoutSlotRequest `json:"workouts"`
	DeletedIDs         []string             `json:"deleted_ids,omitempty"`
	DeletedExerciseIDs []string             `json:"deleted_exercise_ids,omitempty"`
}

// PlanWorkoutResponse is one persisted plan row.
type PlanWorkoutResponse struct {
	ID        string `json:"id"`
	WorkoutID string `json:"workoutId,omitempty"`
	IsRest    bool   `json:"isRest"`
	Phase     *int   `json:"phase,omitempty"`
	Week      *int   `json:"week,omitempty"`
	Day       *int   `json:"day,omitempty"`
	SortIndex int    `json:"sortIndex"`
}

// PlanResponse is the DTO for returning plan details.
type PlanResponse struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Type       string                `json:"type"`
	PhaseCount *int                  `json:"phaseCount,omitempty"`
	WeekCount  *int                  `json:"weekCount,omitempty"`
	TotalWeeks int                   `json:"totalWeeks"`
	Visibility domain.Visibility     `json:"visibility"`
	ParentID   *string               `json:"parentId,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	Workouts   []PlanWorkoutResponse `json:"workouts,omitempty"`
}

type AssignPlanRequest struct {
	AssigneeID string     `json:"assignee_id" binding:"required"`
	StartDate  time.Time  `json:"start_date" binding:"required"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type CompletionRequest struct {
	PlanWorkoutID string `json:"plan_workout_id" binding:"required"`
	Notes         string `json:"notes,omitempty"`
}

// --- Wire-to-draft mapping ---

func parseOptionalID(field, raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: not a valid id: %w", field, err)
	}
	return &id, nil
}

func parseIDList(field string, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for i, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: not a valid id: %w", field, i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func planKindFromWire(t string) (domain.PlanKind, error) {
	switch t {
	case planTypeOnDemand:
		return domain.PlanOnDemand, nil
	case planTypeProgram:
		return domain.PlanProgram, nil
	default:
		return "", fmt.Errorf("type: must be %q or %q", planTypeOnDemand, planTypeProgram)
	}
}

func planKindToWire(k domain.PlanKind) string {
	if k == domain.PlanProgram {
		return planTypeProgram
	}
	return planTypeOnDemand
}

func visibilityFromWire(v string) domain.Visibility {
	if v == string(domain.VisibilityPublic) {
		return domain.VisibilityPublic
	}
	// Content defaults to private; publishing is an explicit choice.
	return domain.VisibilityPrivate
}

// toPlanDraft parses the loose wire payload into the closed draft union the
// composition engine consumes. Structural invariants are checked afterwards
// by draft.Validate; this only classifies slots and converts ids.
func toPlanDraft(req *PlanRequest) (*domain.PlanDraft, error) {
	kind, err := planKindFromWire(req.Type)
	if err != nil {
		return nil, err
	}

	draft := &domain.PlanDraft{
		Title:      req.Title,
		Kind:       kind,
		PhaseCount: req.PhaseCount,
		WeekCount:  req.WeekCount,
		Visibility: visibilityFromWire(req.Visibility),
	}

	draft.Slots = make([]domain.WorkoutSlot, 0, len(req.Workouts))
	for i, w := range req.Workouts {
		field := fmt.Sprintf("workouts[%d]", i)
		slot := domain.WorkoutSlot{
			Phase: w.Phase,
			Week:  w.Week,
			Day:   w.Day,
			Title: w.Title,
		}
		if slot.RowID, err = parseOptionalID(field+".row_id", w.RowID); err != nil {
			return nil, err
		}
		// Everything the payload carries is parsed before the slot is
		// classified, so a contradictory payload (a rest slot that also
		// names a workout, a reference that also defines exercises)
		// reaches the validator instead of being silently dropped.
		if slot.WorkoutID, err = parseOptionalID(field+".workout_id", w.WorkoutID); err != nil {
			return nil, err
		}
		if len(w.Exercises) > 0 {
			if slot.Segments, err = toSegments(field+".exercises", w.Exercises); err != nil {
				return nil, err
			}
		}
		switch {
		case w.IsRest:
			slot.Kind = domain.SlotRest
		case slot.WorkoutID != nil:
			slot.Kind = domain.SlotWorkoutRef
		default:
			slot.Kind = domain.SlotInline
		}
		draft.Slots = append(draft.Slots, slot)
	}

	if draft.DeletedPlanWorkoutIDs, err = parseIDList("deleted_ids", req.DeletedIDs); err != nil {
		return nil, err
	}
	if draft.DeletedWorkoutExerciseIDs, err = parseIDList("deleted_exercise_ids", req.DeletedExerciseIDs); err != nil {
		return nil, err
	}
	return draft, nil
}

func toSegments(field string, slots []ExerciseSlotRequest) ([]domain.Segment, error) {
	segments := make([]domain.Segment, 0, len(slots))
	for j, e := range slots {
		segField := fmt.Sprintf("%s[%d]", field, j)
		seg := domain.Segment{
			RestMinutes: e.RestMin,
			RestSeconds: e.RestSec,
		}
		rowID, err := parseOptionalID(segField+".row_id", e.RowID)
		if err != nil {
			return nil, err
		}
		seg.RowID = rowID

		switch {
		case e.IsRest:
			seg.Kind = domain.SegmentRest
		case len(e.Superset) > 0:
			seg.Kind = domain.SegmentSuperset
			for k, m := range e.Superset {
				member, err := toPrescription(fmt.Sprintf("%s.superset[%d]", segField, k), m)
				if err != nil {
					return nil, err
				}
				seg.Members = append(seg.Members, member)
			}
		default:
			if e.IsStag {
				seg.Kind = domain.SegmentStaggered
			} else {
				seg.Kind = domain.SegmentPlain
			}
			member, err := toPrescription(segField, e)
			if err != nil {
				return nil, err
			}
			seg.Members = []domain.Prescription{member}
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func toPrescription(field string, e ExerciseSlotRequest) (domain.Prescription, error) {
	exerciseID, err := parseOptionalID(field+".id", e.ID)
	if err != nil {
		return domain.Prescription{}, err
	}
	p := domain.Prescription{
		Scheme:      domain.SetScheme(e.Type),
		Minutes:     e.Min,
		Seconds:     e.Sec,
		Sets:        e.Set,
		Reps:        e.Rep,
		RestMinutes: e.RestMin,
		RestSeconds: e.RestSec,
		RepsPerSet:  e.RepsArray,
	}
	if exerciseID != nil {
		p.ExerciseID = *exerciseID
	}
	return p, nil
}

// --- Response mapping ---

// MapPlanToResponse converts a domain Plan to a PlanResponse DTO.
func MapPlanToResponse(plan *domain.Plan, rows []domain.PlanWorkout) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	resp := PlanResponse{
		ID:         plan.ID.Hex(),
		Title:      plan.Title,
		Type:       planKindToWire(plan.Kind),
		PhaseCount: plan.PhaseCount,
		WeekCount:  plan.WeekCount,
		TotalWeeks: plan.TotalWeeks,
		Visibility: plan.Visibility,
		CreatedAt:  plan.CreatedAt,
		UpdatedAt:  plan.UpdatedAt,
	}
	if plan.ParentID != nil {
		hex := plan.ParentID.Hex()
		resp.ParentID = &hex
	}
	for _, row := range rows {
		r := PlanWorkoutResponse{
			ID:        row.ID.Hex(),
			IsRest:    row.IsRest,
			Phase:     row.Phase,
			Week:      row.Week,
			Day:       row.Day,
			SortIndex: row.SortIndex,
		}
		if row.WorkoutID != nil {
			r.WorkoutID = row.WorkoutID.Hex()
		}
		resp.Workouts = append(resp.Workouts, r)
	}
	return resp
}

// --- Handler Methods ---

// CreatePlan composes and persists a new plan for the authenticated owner.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	draft, err := toPlanDraft(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), owner, draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan, nil))
}

// UpdatePlan applies a draft to an existing plan the owner holds.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	draft, err := toPlanDraft(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), owner, planID, draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan, nil))
}

// ClonePlan copies a plan (and, transitively, any foreign content it
// references) into the authenticated owner's namespace.
func (h *PlanHandler) ClonePlan(c *gin.Context) {
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	clone, err := h.planService.ClonePlan(c.Request.Context(), owner, planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(clone, nil))
}

// GetPlan returns a plan with its ordered workout rows.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	detail, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(detail.Plan, detail.Workouts))
}

// GetOwnPlans lists the authenticated owner's plans.
func (h *PlanHandler) GetOwnPlans(c *gin.Context) {
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	plans, err := h.planService.GetPlansByOwner(c.Request.Context(), owner)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i], nil)
	}
	c.JSON(http.StatusOK, responses)
}

// DeletePlan soft-deletes a plan the owner holds.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), owner, planID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignPlan binds a plan to a user for a date range.
func (h *PlanHandler) AssignPlan(c *gin.Context) {
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	assigneeID, err := primitive.ObjectIDFromHex(req.AssigneeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignee_id format")
		return
	}

	assignment, err := h.planService.AssignPlan(c.Request.Context(), owner, planID, assigneeID, req.StartDate, req.EndDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// RecordCompletion logs that the authenticated principal finished one plan
// workout slot.
func (h *PlanHandler) RecordCompletion(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	planWorkoutID, err := primitive.ObjectIDFromHex(req.PlanWorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan_workout_id format")
		return
	}

	entry, err := h.planService.RecordCompletion(c.Request.Context(), owner.OwnerID, planWorkoutID, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
