package notify

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/models"
)

var _ = Describe("Templates", func() {
	tpl := Templates{AppURL: "https://chat.example.com"}

	It("escapes user content", func() {
		e := tpl.Nudge("bob@example.com", "Bob", "Alice", "<script>x</script>")

		Expect(e.HTML).NotTo(ContainSubstring("<script>"))
		Expect(e.HTML).To(ContainSubstring("&lt;script&gt;"))
		Expect(e.HTML).To(ContainSubstring("https://chat.example.com"))
	})

	It("names the related task in a task nudge", func() {
		due := time.Date(2025, 3, 2, 23, 59, 0, 0, time.UTC)
		task := &models.Task{Title: "Review the PR", Status: models.StatusTodo, DueDate: &due}

		e := tpl.TaskNudge("alice@example.com", "Alice", "Bob", "ping", task)

		Expect(e.Subject).To(Equal("Reminder: Review the PR"))
		Expect(e.HTML).To(ContainSubstring("2025-03-02 23:59"))
	})

	It("lists only non-empty digest sections", func() {
		e := tpl.DailyDigest("a@example.com", "Alice", "Core", []models.Task{{Title: "Ship"}}, nil)

		Expect(e.HTML).To(ContainSubstring("Pending (1)"))
		Expect(e.HTML).NotTo(ContainSubstring("Completed"))
	})

	It("formats telegram announcements as escaped html", func() {
		Expect(formatAnnouncement("Core", "Bob", "a < b")).To(Equal("<b>[Core]</b> Bob:\na &lt; b"))
	})
})
