package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamchat/internal/models"
	"teamchat/internal/services"
)

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	AssigneeID  *int64              `json:"assignee_id" binding:"required"`
	DueDate     *string             `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
}

type updateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	AssigneeID  *int64               `json:"assignee_id"`
	DueDate     *string              `json:"due_date"`
	ClearDue    bool                 `json:"clear_due_date"`
	Priority    *models.TaskPriority `json:"priority"`
	Status      *models.TaskStatus   `json:"status"`
}

type statusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        teamID  path  int                true  "Team ID"
// @Param        task    body  createTaskRequest  true  "Task"
// @Success      201  {object}  models.Task
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := parseTime(req.DueDate, "due_date")
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), teamID, actorFrom(c), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, err, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Get godoc
// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Param        teamID  path  int  true  "Team ID"
// @Param        taskID  path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/{taskID} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	teamID, taskID, ok := h.ids(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), teamID, taskID, actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// List godoc
// @Summary      List tasks
// @Tags         Tasks
// @Produce      json
// @Param        teamID       path   int     true   "Team ID"
// @Param        assignee_id  query  int     false  "Assignee"
// @Param        created_by   query  int     false  "Creator"
// @Param        status       query  string  false  "todo, in-progress or done"
// @Success      200  {array}  models.Task
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var filter models.TaskFilter
	if filter.AssigneeID, err = optionalInt64Query(c, "assignee_id"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.CreatedBy, err = optionalInt64Query(c, "created_by"); err != nil {
		badRequest(c, err)
		return
	}
	if v := c.Query("status"); v != "" {
		st, err := models.ParseTaskStatus(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Status = &st
	}

	tasks, err := h.tasks.List(c.Request.Context(), teamID, actorFrom(c), filter)
	if err != nil {
		respondError(c, err, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// Board godoc
// @Summary      Tasks grouped by status
// @Tags         Tasks
// @Produce      json
// @Param        teamID  path  int  true  "Team ID"
// @Success      200  {object}  models.Board
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/board [get]
func (h *TaskHandler) Board(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	board, err := h.tasks.Board(c.Request.Context(), teamID, actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to load board")
		return
	}
	c.JSON(http.StatusOK, board)
}

// BoardPDF godoc
// @Summary      Export the board as PDF
// @Tags         Tasks
// @Produce      application/pdf
// @Param        teamID  path  int  true  "Team ID"
// @Success      200
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/board.pdf [get]
func (h *TaskHandler) BoardPDF(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.tasks.ExportBoard(c.Request.Context(), teamID, actorFrom(c), &buf); err != nil {
		respondError(c, err, "failed to export board")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="board_team_%d.pdf"`, teamID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Update godoc
// @Summary      Update task fields
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        teamID  path  int                true  "Team ID"
// @Param        taskID  path  int                true  "Task ID"
// @Param        task    body  updateTaskRequest  true  "Fields to change"
// @Success      200  {object}  models.Task
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/{taskID} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	teamID, taskID, ok := h.ids(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := parseTime(req.DueDate, "due_date")
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), teamID, taskID, actorFrom(c), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
		ClearDue:    req.ClearDue,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateStatus godoc
// @Summary      Move a task to another column
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        teamID  path  int            true  "Team ID"
// @Param        taskID  path  int            true  "Task ID"
// @Param        status  body  statusRequest  true  "New status"
// @Success      200  {object}  models.Task
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/{taskID}/status [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	teamID, taskID, ok := h.ids(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.tasks.UpdateStatus(c.Request.Context(), teamID, taskID, actorFrom(c), req.Status)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary      Delete a task
// @Tags         Tasks
// @Param        teamID  path  int  true  "Team ID"
// @Param        taskID  path  int  true  "Task ID"
// @Success      204
// @Security     BearerAuth
// @Router       /teams/{teamID}/tasks/{taskID} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	teamID, taskID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), teamID, taskID, actorFrom(c)); err != nil {
		respondError(c, err, "failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) ids(c *gin.Context) (teamID, taskID int64, ok bool) {
	teamID, err := teamIDFrom(c)
	if err == nil {
		taskID, err = int64Param(c, "taskID")
	}
	if err != nil {
		badRequest(c, err)
		return 0, 0, false
	}
	return teamID, taskID, true
}
