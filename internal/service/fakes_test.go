package service

import (
	"context"
	"sort"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for the mongo collections. It mimics
// the behaviors the services rely on: soft-delete filtering, the unique
// clone index per (parentId, owner), replace-upserts that preserve row ids,
// and transactional rollback via snapshot/restore.
type fakeStore struct {
	owners           map[primitive.ObjectID]domain.Owner
	videos           map[primitive.ObjectID]domain.Video
	exercises        map[primitive.ObjectID]domain.Exercise
	workouts         map[primitive.ObjectID]domain.Workout
	workoutExercises map[primitive.ObjectID]domain.WorkoutExercise
	plans            map[primitive.ObjectID]domain.Plan
	planWorkouts     map[primitive.ObjectID]domain.PlanWorkout
	exerciseVideos   []domain.ExerciseVideo
	completionLogs   map[primitive.ObjectID]domain.CompletionLog
	assignments      map[primitive.ObjectID]domain.PlanAssignment

	// Failure injection.
	failExerciseVideoInsert   error
	failWorkoutExerciseUpsert error
	// Number of upcoming video FindCloneForOwner calls that report
	// ErrNotFound even when a clone exists, simulating the window a
	// concurrent operation wins the clone race in.
	videoFindCloneMisses int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		owners:           make(map[primitive.ObjectID]domain.Owner),
		videos:           make(map[primitive.ObjectID]domain.Video),
		exercises:        make(map[primitive.ObjectID]domain.Exercise),
		workouts:         make(map[primitive.ObjectID]domain.Workout),
		workoutExercises: make(map[primitive.ObjectID]domain.WorkoutExercise),
		plans:            make(map[primitive.ObjectID]domain.Plan),
		planWorkouts:     make(map[primitive.ObjectID]domain.PlanWorkout),
		completionLogs:   make(map[primitive.ObjectID]domain.CompletionLog),
		assignments:      make(map[primitive.ObjectID]domain.PlanAssignment),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeStore) snapshot() *fakeStore {
	return &fakeStore{
		owners:           copyMap(s.owners),
		videos:           copyMap(s.videos),
		exercises:        copyMap(s.exercises),
		workouts:         copyMap(s.workouts),
		workoutExercises: copyMap(s.workoutExercises),
		plans:            copyMap(s.plans),
		planWorkouts:     copyMap(s.planWorkouts),
		exerciseVideos:   append([]domain.ExerciseVideo(nil), s.exerciseVideos...),
		completionLogs:   copyMap(s.completionLogs),
		assignments:      copyMap(s.assignments),
	}
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.owners = snap.owners
	s.videos = snap.videos
	s.exercises = snap.exercises
	s.workouts = snap.workouts
	s.workoutExercises = snap.workoutExercises
	s.plans = snap.plans
	s.planWorkouts = snap.planWorkouts
	s.exerciseVideos = snap.exerciseVideos
	s.completionLogs = snap.completionLogs
	s.assignments = snap.assignments
}

// fakeTxRunner applies rollback semantics: a failing fn leaves the store as
// it was before the transaction started.
type fakeTxRunner struct {
	store *fakeStore
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// --- Content repositories ---

type fakeVideoRepo struct{ s *fakeStore }

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) (primitive.ObjectID, error) {
	// The unique clone index keys on the row's existence, not its liveness,
	// so tombstoned clones collide too.
	if video.ParentID != nil {
		for _, v := range r.s.videos {
			if v.ParentID != nil && *v.ParentID == *video.ParentID && v.OwnedBy(domain.OwnerRef{OwnerID: video.OwnerID, Role: video.OwnerRole}) {
				return primitive.NilObjectID, repository.ErrDuplicateKey
			}
		}
	}
	if video.ID == primitive.NilObjectID {
		video.ID = primitive.NewObjectID()
	}
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	r.s.videos[video.ID] = *video
	return video.ID, nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	v, ok := r.s.videos[id]
	if !ok || v.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	out := v
	return &out, nil
}

func (r *fakeVideoRepo) GetByOwner(_ context.Context, owner domain.OwnerRef) ([]domain.Video, error) {
	var out []domain.Video
	for _, v := range r.s.videos {
		if v.DeletedAt == nil && v.OwnedBy(owner) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) FindCloneForOwner(_ context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Video, error) {
	if r.s.videoFindCloneMisses > 0 {
		r.s.videoFindCloneMisses--
		return nil, repository.ErrNotFound
	}
	for _, v := range r.s.videos {
		if v.ParentID != nil && *v.ParentID == parentID && v.OwnedBy(owner) {
			out := v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoRepo) Restore(_ context.Context, video *domain.Video) error {
	if _, ok := r.s.videos[video.ID]; !ok {
		return repository.ErrNotFound
	}
	video.DeletedAt = nil
	video.UpdatedAt = time.Now()
	r.s.videos[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *domain.Video) error {
	if _, ok := r.s.videos[video.ID]; !ok {
		return repository.ErrNotFound
	}
	video.UpdatedAt = time.Now()
	r.s.videos[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) SoftDelete(_ context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
	v, ok := r.s.videos[id]
	if !ok || v.DeletedAt != nil || !v.OwnedBy(owner) {
		return repository.ErrNotFound
	}
	now := time.Now()
	v.DeletedAt = &now
	r.s.videos[id] = v
	return nil
}

type fakeExerciseRepo struct{ s *fakeStore }

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.ParentID != nil {
		for _, e := range r.s.exercises {
			if e.ParentID != nil && *e.ParentID == *exercise.ParentID && e.OwnedBy(domain.OwnerRef{OwnerID: exercise.OwnerID, Role: exercise.OwnerRole}) {
				return primitive.NilObjectID, repository.ErrDuplicateKey
			}
		}
	}
	if exercise.ID == primitive.NilObjectID {
		exercise.ID = primitive.NewObjectID()
	}
	exercise.CreatedAt = time.Now()
	exercise.UpdatedAt = exercise.CreatedAt
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.s.exercises[id]
	if !ok || e.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	out := e
	return &out, nil
}

func (r *fakeExerciseRepo) GetByOwner(_ context.Context, owner domain.OwnerRef) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.s.exercises {
		if e.DeletedAt == nil && e.OwnedBy(owner) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) FindCloneForOwner(_ context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Exercise, error) {
	for _, e := range r.s.exercises {
		if e.ParentID != nil && *e.ParentID == parentID && e.OwnedBy(owner) {
			out := e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) Restore(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.s.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	exercise.DeletedAt = nil
	exercise.UpdatedAt = time.Now()
	r.s.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.s.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now()
	r.s.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) SoftDelete(_ context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
	e, ok := r.s.exercises[id]
	if !ok || e.DeletedAt != nil || !e.OwnedBy(owner) {
		return repository.ErrNotFound
	}
	now := time.Now()
	e.DeletedAt = &now
	r.s.exercises[id] = e
	return nil
}

type fakeWorkoutRepo struct{ s *fakeStore }

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ParentID != nil {
		for _, w := range r.s.workouts {
			if w.ParentID != nil && *w.ParentID == *workout.ParentID && w.OwnedBy(domain.OwnerRef{OwnerID: workout.OwnerID, Role: workout.OwnerRole}) {
				return primitive.NilObjectID, repository.ErrDuplicateKey
			}
		}
	}
	if workout.ID == primitive.NilObjectID {
		workout.ID = primitive.NewObjectID()
	}
	workout.CreatedAt = time.Now()
	workout.UpdatedAt = workout.CreatedAt
	r.s.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.s.workouts[id]
	if !ok || w.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	out := w
	return &out, nil
}

func (r *fakeWorkoutRepo) GetByOwner(_ context.Context, owner domain.OwnerRef) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range r.s.workouts {
		if w.DeletedAt == nil && w.OwnedBy(owner) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) FindCloneForOwner(_ context.Context, parentID primitive.ObjectID, owner domain.OwnerRef) (*domain.Workout, error) {
	for _, w := range r.s.workouts {
		if w.ParentID != nil && *w.ParentID == parentID && w.OwnedBy(owner) {
			out := w
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) Restore(_ context.Context, workout *domain.Workout) error {
	if _, ok := r.s.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	workout.DeletedAt = nil
	workout.UpdatedAt = time.Now()
	r.s.workouts[workout.ID] = *workout
	return nil
}

func (r *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	if _, ok := r.s.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	workout.UpdatedAt = time.Now()
	r.s.workouts[workout.ID] = *workout
	return nil
}

func (r *fakeWorkoutRepo) SoftDelete(_ context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
	w, ok := r.s.workouts[id]
	if !ok || w.DeletedAt != nil || !w.OwnedBy(owner) {
		return repository.ErrNotFound
	}
	now := time.Now()
	w.DeletedAt = &now
	r.s.workouts[id] = w
	return nil
}

// --- Junction repositories ---

type fakeWorkoutExerciseRepo struct{ s *fakeStore }

func (r *fakeWorkoutExerciseRepo) GetByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	var out []domain.WorkoutExercise
	for _, row := range r.s.workoutExercises {
		if row.WorkoutID == workoutID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out, nil
}

func (r *fakeWorkoutExerciseRepo) BulkUpsert(_ context.Context, rows []domain.WorkoutExercise) error {
	if r.s.failWorkoutExerciseUpsert != nil {
		return r.s.failWorkoutExerciseUpsert
	}
	for i := range rows {
		if rows[i].ID == primitive.NilObjectID {
			rows[i].ID = primitive.NewObjectID()
		}
		r.s.workoutExercises[rows[i].ID] = rows[i]
	}
	return nil
}

func (r *fakeWorkoutExerciseRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		delete(r.s.workoutExercises, id)
	}
	return nil
}

func (r *fakeWorkoutExerciseRepo) DeleteByWorkoutID(_ context.Context, workoutID primitive.ObjectID) error {
	for id, row := range r.s.workoutExercises {
		if row.WorkoutID == workoutID {
			delete(r.s.workoutExercises, id)
		}
	}
	return nil
}

type fakePlanRepo struct{ s *fakeStore }

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.ID == primitive.NilObjectID {
		plan.ID = primitive.NewObjectID()
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	r.s.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	p, ok := r.s.plans[id]
	if !ok || p.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	out := p
	return &out, nil
}

func (r *fakePlanRepo) GetByOwner(_ context.Context, owner domain.OwnerRef) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range r.s.plans {
		if p.DeletedAt == nil && p.OwnedBy(owner) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	if _, ok := r.s.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = time.Now()
	r.s.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) SoftDelete(_ context.Context, id primitive.ObjectID, owner domain.OwnerRef) error {
	p, ok := r.s.plans[id]
	if !ok || p.DeletedAt != nil || !p.OwnedBy(owner) {
		return repository.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	r.s.plans[id] = p
	return nil
}

type fakePlanWorkoutRepo struct{ s *fakeStore }

func (r *fakePlanWorkoutRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanWorkout, error) {
	var out []domain.PlanWorkout
	for _, row := range r.s.planWorkouts {
		if row.PlanID == planID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out, nil
}

func (r *fakePlanWorkoutRepo) BulkUpsert(_ context.Context, rows []domain.PlanWorkout) error {
	for i := range rows {
		if rows[i].ID == primitive.NilObjectID {
			rows[i].ID = primitive.NewObjectID()
		}
		r.s.planWorkouts[rows[i].ID] = rows[i]
	}
	return nil
}

func (r *fakePlanWorkoutRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		delete(r.s.planWorkouts, id)
	}
	return nil
}

func (r *fakePlanWorkoutRepo) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	for id, row := range r.s.planWorkouts {
		if row.PlanID == planID {
			delete(r.s.planWorkouts, id)
		}
	}
	return nil
}

type fakeExerciseVideoRepo struct{ s *fakeStore }

func (r *fakeExerciseVideoRepo) GetByExerciseID(_ context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseVideo, error) {
	var out []domain.ExerciseVideo
	for _, link := range r.s.exerciseVideos {
		if link.ExerciseID == exerciseID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (r *fakeExerciseVideoRepo) BulkInsert(_ context.Context, rows []domain.ExerciseVideo) error {
	if r.s.failExerciseVideoInsert != nil {
		return r.s.failExerciseVideoInsert
	}
	for _, row := range rows {
		if row.ID == primitive.NilObjectID {
			row.ID = primitive.NewObjectID()
		}
		r.s.exerciseVideos = append(r.s.exerciseVideos, row)
	}
	return nil
}

func (r *fakeExerciseVideoRepo) DeleteByExerciseID(_ context.Context, exerciseID primitive.ObjectID) error {
	kept := r.s.exerciseVideos[:0]
	for _, link := range r.s.exerciseVideos {
		if link.ExerciseID != exerciseID {
			kept = append(kept, link)
		}
	}
	r.s.exerciseVideos = kept
	return nil
}

type fakeCompletionLogRepo struct{ s *fakeStore }

func (r *fakeCompletionLogRepo) Create(_ context.Context, log *domain.CompletionLog) (primitive.ObjectID, error) {
	if log.ID == primitive.NilObjectID {
		log.ID = primitive.NewObjectID()
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now()
	}
	r.s.completionLogs[log.ID] = *log
	return log.ID, nil
}

func (r *fakeCompletionLogRepo) GetByPlanWorkoutIDs(_ context.Context, planWorkoutIDs []primitive.ObjectID) ([]domain.CompletionLog, error) {
	ids := make(map[primitive.ObjectID]bool, len(planWorkoutIDs))
	for _, id := range planWorkoutIDs {
		ids[id] = true
	}
	var out []domain.CompletionLog
	for _, log := range r.s.completionLogs {
		if ids[log.PlanWorkoutID] {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeCompletionLogRepo) DeleteByPlanWorkoutIDs(_ context.Context, planWorkoutIDs []primitive.ObjectID) error {
	ids := make(map[primitive.ObjectID]bool, len(planWorkoutIDs))
	for _, id := range planWorkoutIDs {
		ids[id] = true
	}
	for id, log := range r.s.completionLogs {
		if ids[log.PlanWorkoutID] {
			delete(r.s.completionLogs, id)
		}
	}
	return nil
}

type fakePlanAssignmentRepo struct{ s *fakeStore }

func (r *fakePlanAssignmentRepo) Create(_ context.Context, assignment *domain.PlanAssignment) (primitive.ObjectID, error) {
	if assignment.ID == primitive.NilObjectID {
		assignment.ID = primitive.NewObjectID()
	}
	assignment.CreatedAt = time.Now()
	r.s.assignments[assignment.ID] = *assignment
	return assignment.ID, nil
}

func (r *fakePlanAssignmentRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanAssignment, error) {
	var out []domain.PlanAssignment
	for _, a := range r.s.assignments {
		if a.PlanID == planID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- Shared test fixtures ---

type fixture struct {
	store            *fakeStore
	tx               *fakeTxRunner
	videos           *fakeVideoRepo
	exercises        *fakeExerciseRepo
	workouts         *fakeWorkoutRepo
	workoutExercises *fakeWorkoutExerciseRepo
	plans            *fakePlanRepo
	planWorkouts     *fakePlanWorkoutRepo
	exerciseVideos   *fakeExerciseVideoRepo
	completionLogs   *fakeCompletionLogRepo
	assignments      *fakePlanAssignmentRepo
}

func newFixture() *fixture {
	store := newFakeStore()
	return &fixture{
		store:            store,
		tx:               &fakeTxRunner{store: store},
		videos:           &fakeVideoRepo{s: store},
		exercises:        &fakeExerciseRepo{s: store},
		workouts:         &fakeWorkoutRepo{s: store},
		workoutExercises: &fakeWorkoutExerciseRepo{s: store},
		plans:            &fakePlanRepo{s: store},
		planWorkouts:     &fakePlanWorkoutRepo{s: store},
		exerciseVideos:   &fakeExerciseVideoRepo{s: store},
		completionLogs:   &fakeCompletionLogRepo{s: store},
		assignments:      &fakePlanAssignmentRepo{s: store},
	}
}

func (f *fixture) planService() PlanService {
	return NewPlanService(
		f.tx, f.plans, f.planWorkouts, f.workoutExercises, f.exerciseVideos,
		f.completionLogs, f.assignments, f.videos, f.exercises, f.workouts,
		NewLogNotifier(),
	)
}

func (f *fixture) workoutService() WorkoutService {
	return NewWorkoutService(f.tx, f.workouts, f.workoutExercises, f.exerciseVideos, f.exercises, f.videos)
}

func (f *fixture) exerciseService() ExerciseService {
	return NewExerciseService(f.tx, f.exercises, f.videos, f.workouts, f.exerciseVideos)
}

func (f *fixture) resolver() *ownershipResolver {
	return newOwnershipResolver(f.videos, f.exercises, f.workouts)
}

func (f *fixture) builder() *compositionBuilder {
	return newCompositionBuilder(f.resolver(), f.workouts, f.workoutExercises)
}

func newOwner() domain.OwnerRef {
	return domain.OwnerRef{OwnerID: primitive.NewObjectID(), Role: domain.RoleCoach}
}

func (f *fixture) addVideo(owner domain.OwnerRef, title string) domain.Video {
	v := domain.Video{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Source:     domain.VideoSourceURL,
		URL:        "https://videos.example.com/" + title,
		Visibility: domain.VisibilityPublic,
		Ownership:  domain.Ownership{OwnerID: owner.OwnerID, OwnerRole: owner.Role},
	}
	f.store.videos[v.ID] = v
	return v
}

func (f *fixture) addExercise(owner domain.OwnerRef, title string, videoID *primitive.ObjectID) domain.Exercise {
	e := domain.Exercise{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Visibility: domain.VisibilityPublic,
		VideoID:    videoID,
		Ownership:  domain.Ownership{OwnerID: owner.OwnerID, OwnerRole: owner.Role},
	}
	f.store.exercises[e.ID] = e
	return e
}

func (f *fixture) addWorkout(owner domain.OwnerRef, title string) domain.Workout {
	w := domain.Workout{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Visibility: domain.VisibilityPublic,
		Ownership:  domain.Ownership{OwnerID: owner.OwnerID, OwnerRole: owner.Role},
	}
	f.store.workouts[w.ID] = w
	return w
}

func (f *fixture) addWorkoutExercise(workoutID primitive.ObjectID, exerciseID *primitive.ObjectID, sortIndex int) domain.WorkoutExercise {
	row := domain.WorkoutExercise{
		ID:        primitive.NewObjectID(),
		WorkoutID: workoutID,
		IsRest:    exerciseID == nil,
		SortIndex: sortIndex,
	}
	if exerciseID != nil {
		row.ExerciseID = exerciseID
		row.Scheme = domain.SchemeSets
		row.Sets = intPtr(3)
		row.Reps = intPtr(10)
	}
	f.store.workoutExercises[row.ID] = row
	return row
}

func (f *fixture) clonesOf(parentID primitive.ObjectID) int {
	n := 0
	for _, v := range f.store.videos {
		if v.ParentID != nil && *v.ParentID == parentID {
			n++
		}
	}
	for _, e := range f.store.exercises {
		if e.ParentID != nil && *e.ParentID == parentID {
			n++
		}
	}
	for _, w := range f.store.workouts {
		if w.ParentID != nil && *w.ParentID == parentID {
			n++
		}
	}
	return n
}

func intPtr(i int) *int { return &i }

func oidPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }
