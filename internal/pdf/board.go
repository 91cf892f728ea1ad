package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"teamchat/internal/models"
)

type Generator interface {
	RenderBoard(w io.Writer, data BoardData) error
}

type BoardData struct {
	TeamName    string
	Board       models.Board
	GeneratedAt time.Time
}

// BoardGenerator renders kanban boards. With a readable FontPath text is
// embedded as UTF-8, otherwise the core Helvetica font is used.
type BoardGenerator struct {
	FontPath string
}

func NewBoardGenerator(fontPath string) *BoardGenerator {
	return &BoardGenerator{FontPath: fontPath}
}

var columnTitles = map[models.TaskStatus]string{
	models.StatusTodo:       "To do",
	models.StatusInProgress: "In progress",
	models.StatusDone:       "Done",
}

func (g *BoardGenerator) RenderBoard(w io.Writer, data BoardData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s board", data.TeamName), true)
	pdf.SetAuthor("Teamchat", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font, tr := g.setupFont(pdf)
	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 10, tr(data.TeamName), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 10)
	pdf.CellFormat(0, 6, "Generated "+data.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	hr(pdf)

	for _, status := range models.TaskStatuses {
		tasks := data.Board.Columns[status]
		pdf.Ln(3)
		pdf.SetFont(font, "B", 13)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s (%d)", columnTitles[status], len(tasks)), "", 1, "L", false, 0, "")
		hr(pdf)

		if len(tasks) == 0 {
			pdf.SetFont(font, "", 10)
			pdf.CellFormat(0, 6, "No tasks", "", 1, "L", false, 0, "")
			continue
		}
		for _, t := range tasks {
			taskRow(pdf, font, tr, t, data.GeneratedAt)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	return pdf.Output(w)
}

func taskRow(pdf *gofpdf.Fpdf, font string, tr func(string) string, t models.Task, now time.Time) {
	pdf.SetFont(font, "B", 11)
	pdf.MultiCell(0, 6, tr(t.Title), "", "L", false)

	due := "no due date"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02")
		if t.IsOverdue(now) {
			due += " (overdue)"
		}
	}
	pdf.SetFont(font, "", 9)
	meta := fmt.Sprintf("%s | priority %s | due %s", t.AssigneeName, t.Priority, due)
	pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	pdf.Ln(1)
}

// setupFont registers the font on pdf and returns its name.
func (g *BoardGenerator) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			const name = "DejaVu"
			pdf.AddUTF8Font(name, "", g.FontPath)
			pdf.AddUTF8Font(name, "B", g.FontPath)
			return name, func(s string) string { return s }
		}
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
