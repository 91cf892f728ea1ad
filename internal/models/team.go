package models

import (
	"slices"
	"time"
)

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []int64   `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Team) HasMember(userID int64) bool {
	return slices.Contains(t.MemberIDs, userID)
}

type MemberPresence struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// TeamStats is computed per request from the team document, the presence
// snapshot and the task table.
type TeamStats struct {
	TeamID       int64              `json:"team_id"`
	TotalMembers int                `json:"total_members"`
	OnlineCount  int                `json:"online_count"`
	Members      []MemberPresence   `json:"members"`
	TaskCounts   map[TaskStatus]int `json:"task_counts"`
	OverdueTasks int                `json:"overdue_tasks"`
}
