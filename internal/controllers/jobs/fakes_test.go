package jobController

import (
	"context"
	"strings"
	"time"

	"petshop/internal/events"
	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/types"

	"gorm.io/gorm"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	f.calls++
	return fn(ctx, nil)
}

// fakeJobRepo stores detached copies of the columns, like a table would, and
// preloads Pet and Worker on read.
type fakeJobRepo struct {
	jobs   map[int]*Job
	saved  []Job
	nextID int
	filter repositories.JobFilter
	pets   *fakePetRepo
	users  *fakeUserRepo
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int]*Job{}, nextID: 100}
}

func (f *fakeJobRepo) GetByID(_ context.Context, _ *gorm.DB, id int) (*Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	clone := f.load(*job)
	return &clone, nil
}

func (f *fakeJobRepo) load(job Job) Job {
	if f.pets != nil {
		if pet, ok := f.pets.pets[job.PetID]; ok {
			job.Pet = pet
		}
	}
	if f.users != nil {
		if worker, ok := f.users.users[job.WorkerID]; ok {
			job.Worker = worker
		}
	}
	job.RefreshStatus()
	return job
}

func (f *fakeJobRepo) store(job *Job) {
	row := *job
	row.Pet, row.Worker = nil, nil
	f.jobs[job.ID] = &row
}

func (f *fakeJobRepo) Create(_ context.Context, _ *gorm.DB, job *Job) error {
	f.nextID++
	job.ID = f.nextID
	f.store(job)
	return nil
}

func (f *fakeJobRepo) Save(_ context.Context, _ *gorm.DB, job *Job) error {
	f.saved = append(f.saved, *job)
	f.store(job)
	return nil
}

func (f *fakeJobRepo) List(_ context.Context, _ *gorm.DB, filter repositories.JobFilter, page types.PageRequest) (types.Page[Job], error) {
	f.filter = filter
	var jobs []Job
	for _, row := range f.jobs {
		job := f.load(*row)
		if filter.CustomerID != 0 && job.OwnerID() != filter.CustomerID {
			continue
		}
		jobs = append(jobs, job)
	}
	SortJobs(jobs)
	return types.NewPage(jobs, int64(len(jobs)), page), nil
}

func (f *fakeJobRepo) ListScheduledBetween(context.Context, *gorm.DB, time.Time, time.Time) ([]Job, error) {
	return nil, nil
}

type fakePetRepo struct {
	pets map[int]*Pet
}

func (f *fakePetRepo) GetByID(_ context.Context, _ *gorm.DB, id int) (*Pet, error) {
	pet, ok := f.pets[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return pet, nil
}

func (f *fakePetRepo) Create(_ context.Context, _ *gorm.DB, pet *Pet) error {
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetRepo) List(context.Context, *gorm.DB, repositories.PetFilter, types.PageRequest) (types.Page[Pet], error) {
	return types.Page[Pet]{}, nil
}

func (f *fakePetRepo) SearchByCustomer(_ context.Context, _ *gorm.DB, customerID int, search string, limit int) ([]Pet, error) {
	var pets []Pet
	for _, pet := range f.pets {
		if pet.CustomerID == customerID && strings.Contains(strings.ToLower(pet.Name), strings.ToLower(search)) {
			pets = append(pets, *pet)
		}
	}
	return pets, nil
}

type fakeUserRepo struct {
	users map[int]*User
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id int) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, *gorm.DB, string) (*User, error) {
	return nil, types.ErrNotFound
}

func (f *fakeUserRepo) Create(context.Context, *gorm.DB, *User) error { return nil }

func (f *fakeUserRepo) Update(context.Context, *gorm.DB, *User) error { return nil }

func (f *fakeUserRepo) List(context.Context, *gorm.DB, repositories.UserFilter, types.PageRequest) (types.Page[User], error) {
	return types.Page[User]{}, nil
}

func (f *fakeUserRepo) Search(_ context.Context, _ *gorm.DB, role Role, search string, limit int) ([]User, error) {
	var users []User
	for id := 1; id <= 100 && len(users) < limit; id++ {
		user, ok := f.users[id]
		if ok && user.Type == role && strings.Contains(strings.ToLower(user.Name), strings.ToLower(search)) {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) EmailTaken(context.Context, *gorm.DB, string, int) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) CPFTaken(context.Context, *gorm.DB, string, int) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) ClearCache(context.Context, int) error { return nil }

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ events.Channel, event events.Event) error {
	p.events = append(p.events, string(event.Type))
	return nil
}
