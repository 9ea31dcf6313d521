package httpapi

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) createTask(c *gin.Context) {
	var in services.CreateTaskInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	respondOK(c, "Task created", task)
}

func (h *Handler) listTasks(c *gin.Context) {
	list, err := h.tasks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err, "No task has been created by user")
		return
	}

	respondOK(c, "Tasks retrieved successfully", list)
}

func (h *Handler) getTask(c *gin.Context) {
	taskID := c.Query("taskId")

	task, err := h.tasks.Get(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		h.fail(c, err, fmt.Sprintf("No task found with id: %s", taskID))
		return
	}

	respondOK(c, "Task retrieved successfully", task)
}

func (h *Handler) updateTask(c *gin.Context) {
	taskID := c.Query("taskId")

	var in services.UpdateTaskInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), currentUserID(c), taskID, in)
	if err != nil {
		h.fail(c, err, fmt.Sprintf("No task found with id: %s", taskID))
		return
	}

	respondOK(c, "Task updated successfully", task)
}

type deleteTaskRequest struct {
	TaskID string `json:"taskId"`
}

// deleteTask takes the id from the body, falling back to ?taskId.
func (h *Handler) deleteTask(c *gin.Context) {
	var in deleteTaskRequest
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}
	if strings.TrimSpace(in.TaskID) == "" {
		in.TaskID = c.Query("taskId")
	}

	task, err := h.tasks.Delete(c.Request.Context(), currentUserID(c), in.TaskID)
	if err != nil {
		h.fail(c, err, fmt.Sprintf("No task found with id: %s", in.TaskID))
		return
	}

	respondOK(c, "Task deleted successfully", task)
}

type deleteAllResult struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) deleteAllTasks(c *gin.Context) {
	n, err := h.tasks.DeleteAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err, "No tasks found for the user")
		return
	}

	respondOK(c, "All tasks deleted successfully", deleteAllResult{Deleted: n})
}
