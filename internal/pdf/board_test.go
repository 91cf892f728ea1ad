package pdf

import (
	"bytes"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/models"
)

var _ = Describe("BoardGenerator", func() {
	It("renders a board with the core font when no font file is set", func() {
		due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		board := models.Board{
			TeamID: 1,
			Columns: map[models.TaskStatus][]models.Task{
				models.StatusTodo: {
					{Title: "Revisar o PR", AssigneeName: "Alice", Priority: models.PriorityHigh, DueDate: &due},
				},
				models.StatusDone: {
					{Title: "Ship", AssigneeName: "Bob", Priority: models.PriorityLow},
				},
			},
		}

		var buf bytes.Buffer
		err := NewBoardGenerator("").RenderBoard(&buf, BoardData{
			TeamName:    "Core",
			Board:       board,
			GeneratedAt: due.Add(48 * time.Hour),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(HavePrefix("%PDF-"))
	})

	It("falls back when the font file is missing", func() {
		var buf bytes.Buffer
		err := NewBoardGenerator("/does/not/exist.ttf").RenderBoard(&buf, BoardData{TeamName: "Empty"})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Len()).To(BeNumerically(">", 0))
	})

	It("renders concurrently from one shared generator", func() {
		gen := NewBoardGenerator("/does/not/exist.ttf")
		errs := make([]error, 8)
		sizes := make([]int, 8)

		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				var buf bytes.Buffer
				errs[i] = gen.RenderBoard(&buf, BoardData{TeamName: "Core"})
				sizes[i] = buf.Len()
			}(i)
		}
		wg.Wait()

		for i := range errs {
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(sizes[i]).To(BeNumerically(">", 0))
		}
	})
})
