package services

import (
	"time"

	"teamchat/internal/models"
	"teamchat/internal/notify"
)

const testTeamID int64 = 100

type testEnv struct {
	db       *memDB
	sched    *mockScheduler
	pub      *mockPublisher
	presence *mockPresence
	mirror   *mockMirror
	sender   *mockSender
	files    *mockStorage
	pdf      *mockPDF
	notifier *Notifier
	clock    time.Time

	alice, bob, carol, dave models.User
}

func newUser(id int64, first, email string) models.User {
	return models.User{ID: id, ExternalID: "ext-" + first, Email: email, FirstName: ptr(first)}
}

func newTestEnv() *testEnv {
	env := &testEnv{
		db:       newMemDB(),
		sched:    &mockScheduler{},
		pub:      &mockPublisher{},
		presence: &mockPresence{online: map[string]map[int64]bool{}},
		mirror:   &mockMirror{},
		sender:   &mockSender{},
		files:    &mockStorage{},
		pdf:      &mockPDF{},
		clock:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		alice:    newUser(1, "Alice", "alice@example.com"),
		bob:      newUser(2, "Bob", "bob@example.com"),
		carol:    newUser(3, "Carol", "carol@example.com"),
		dave:     newUser(4, "Dave", "dave@example.com"),
	}
	env.notifier = NewNotifier(env.sched, notify.Templates{AppURL: "https://chat.example.com"}, 5*time.Second)
	for _, u := range []models.User{env.alice, env.bob, env.carol, env.dave} {
		env.db.putUser(u)
	}
	env.db.putTeam(models.Team{
		ID:        testTeamID,
		Name:      "team-1",
		MemberIDs: []int64{env.alice.ID, env.bob.ID, env.carol.ID},
		CreatedAt: env.clock.Add(-24 * time.Hour),
	})
	return env
}

func (e *testEnv) now() time.Time { return e.clock }

func actor(u models.User) Actor {
	return Actor{ID: u.ID, Name: u.DisplayName()}
}

func (e *testEnv) messageService() *messageService {
	svc := NewMessageService(e.db.stores(), e.db, e.files, e.pub, e.notifier).(*messageService)
	svc.now = e.now
	return svc
}

func (e *testEnv) taskService() *taskService {
	svc := NewTaskService(e.db.stores(), e.pub, e.notifier, e.pdf).(*taskService)
	svc.now = e.now
	return svc
}

func (e *testEnv) nudgeService() *nudgeService {
	svc := NewNudgeService(e.db.stores(), e.notifier,
		[]string{"tarefa", "responsável", "prazo", "concluir", "Task", "assign", "deadline", "complete"}).(*nudgeService)
	svc.now = e.now
	return svc
}

func (e *testEnv) teamService() *teamService {
	svc := NewTeamService(e.db.stores(), e.presence, e.pub, e.notifier, e.mirror).(*teamService)
	svc.now = e.now
	return svc
}

func (e *testEnv) dispatcher() *notify.Dispatcher {
	return notify.NewDispatcher(e.sender, e.db.stores().EmailLogs())
}

func (e *testEnv) reconcileService() *reconcileService {
	svc := NewReconcileService(e.db.stores(), e.db, e.pub).(*reconcileService)
	svc.now = e.now
	return svc
}

// seedTask stores a task created at offset from the env clock.
func (e *testEnv) seedTask(title string, assignee, creator models.User, offset time.Duration, mutate func(*models.Task)) models.Task {
	t := models.Task{
		ID:           int64(1000 + len(e.db.allTasks())),
		TeamID:       testTeamID,
		Title:        title,
		Status:       models.StatusTodo,
		Priority:     models.PriorityMedium,
		AssigneeID:   assignee.ID,
		AssigneeName: assignee.DisplayName(),
		CreatedBy:    creator.ID,
		CreatedAt:    e.clock.Add(offset),
		UpdatedAt:    e.clock.Add(offset),
	}
	if mutate != nil {
		mutate(&t)
	}
	e.db.putTask(t)
	return t
}
