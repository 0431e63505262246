package task

import (
	"context"

	"github.com/go-monolith/mono"

	domain "github.com/example/task-manager-api/domain/task"
)

// updateTaskRPCRequest carries the target ID alongside the partial
// update fields for the request-reply surface.
type updateTaskRPCRequest struct {
	ID uint `json:"id"`
	UpdateTaskRequest
}

// handleCreate handles the task.create service request.
func (m *Module) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, &req)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleGet handles the task.get service request.
func (m *Module) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleList handles the task.list service request. Zero pagination
// values fall back to the documented defaults.
func (m *Module) handleList(ctx context.Context, req ListTasksQuery, _ *mono.Msg) (ListTasksResponse, error) {
	req.applyDefaults()

	tasks, total, err := m.service.List(ctx, &req)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return NewListTasksResponse(tasks, total, req.Page, req.PageSize), nil
}

// handleUpdate handles the task.update service request.
func (m *Module) handleUpdate(ctx context.Context, req updateTaskRPCRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.ID, &req.UpdateTaskRequest)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleDelete handles the task.delete service request.
func (m *Module) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// handleStats handles the task.stats service request.
func (m *Module) handleStats(ctx context.Context, _ StatsRequest, _ *mono.Msg) (domain.Stats, error) {
	s, err := m.service.Stats(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return *s, nil
}
