package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/handlers"
	"teamchat/internal/models"
	"teamchat/internal/services"
)

var _ = Describe("TaskHandler", func() {
	var (
		tasks  *mockTaskService
		router *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		tasks = &mockTaskService{}
		h := handlers.NewTaskHandler(tasks)

		router = gin.New()
		team := router.Group("/teams/:teamID", withUser(1, "Alice"))
		team.GET("/tasks", h.List)
		team.POST("/tasks", h.Create)
		team.GET("/tasks/board.pdf", h.BoardPDF)
		team.PUT("/tasks/:taskID/status", h.UpdateStatus)
		team.DELETE("/tasks/:taskID", h.Delete)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Create", func() {
		It("requires a title and an assignee", func() {
			Expect(do(http.MethodPost, "/teams/100/tasks", `{"assignee_id":2}`).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodPost, "/teams/100/tasks", `{"title":"x"}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("creates the task", func() {
			tasks.createFn = func(_ context.Context, teamID int64, actor services.Actor, in services.CreateTaskInput) (*models.Task, error) {
				Expect(actor.ID).To(Equal(int64(1)))
				Expect(in.Title).To(Equal("Write docs"))
				Expect(*in.AssigneeID).To(Equal(int64(2)))
				Expect(in.DueDate).To(BeNil())
				return &models.Task{ID: 9, TeamID: teamID, Title: in.Title, Status: models.StatusTodo}, nil
			}

			w := do(http.MethodPost, "/teams/100/tasks", `{"title":"Write docs","assignee_id":2}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(ContainSubstring(`"status":"todo"`))
		})
	})

	Describe("List", func() {
		It("parses the filters", func() {
			tasks.listFn = func(_ context.Context, _ int64, _ services.Actor, f models.TaskFilter) ([]models.Task, error) {
				Expect(*f.AssigneeID).To(Equal(int64(2)))
				Expect(f.CreatedBy).To(BeNil())
				Expect(*f.Status).To(Equal(models.StatusDone))
				return nil, nil
			}

			w := do(http.MethodGet, "/teams/100/tasks?assignee_id=2&status=done", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
		})

		It("rejects a malformed filter", func() {
			w := do(http.MethodGet, "/teams/100/tasks?created_by=me", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unknown status filter", func() {
			w := do(http.MethodGet, "/teams/100/tasks?status=blocked", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("serves the board as a PDF attachment", func() {
		tasks.exportFn = func(_ context.Context, _ int64, _ services.Actor, w io.Writer) error {
			_, err := io.WriteString(w, "%PDF-1.3")
			return err
		}

		w := do(http.MethodGet, "/teams/100/tasks/board.pdf", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("board_team_100.pdf"))
		Expect(w.Body.String()).To(HavePrefix("%PDF"))
	})

	It("updates the status", func() {
		tasks.statusFn = func(_ context.Context, _, taskID int64, _ services.Actor, to models.TaskStatus) (*models.Task, error) {
			Expect(taskID).To(Equal(int64(9)))
			return &models.Task{ID: taskID, Status: to}, nil
		}
		w := do(http.MethodPut, "/teams/100/tasks/9/status", `{"status":"done"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("returns 404 when deleting a task of another team", func() {
		tasks.deleteFn = func(context.Context, int64, int64, services.Actor) error {
			return services.ErrNotFound
		}
		Expect(do(http.MethodDelete, "/teams/100/tasks/9", "").Code).To(Equal(http.StatusNotFound))
	})

	It("returns 204 on delete", func() {
		tasks.deleteFn = func(context.Context, int64, int64, services.Actor) error { return nil }
		Expect(do(http.MethodDelete, "/teams/100/tasks/9", "").Code).To(Equal(http.StatusNoContent))
	})
})
