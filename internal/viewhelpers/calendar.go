package viewhelpers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/internal/fairness/scheduler"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/charmbracelet/lipgloss"
)

// CalendarDay represents a single day cell in the calendar view.
type CalendarDay struct {
	Date           time.Time
	DayOfMonth     int
	IsCurrentMonth bool                  // Is this day within the primary month being displayed?
	Scheduled      bool                  // Does the routine happen on this day?
	Assignment     *scheduler.Assignment // Assignment for this day (nil if none)
}

// Month is a calendar month laid out in Monday to Sunday weeks
type Month struct {
	Name  string
	Weeks [][]CalendarDay
}

// CalculateCalendarRange determines the start and end dates for a calendar view
// that displays full weeks (Monday to Sunday) containing the month of the refDate.
// Both bounds are midnights in refDate's location.
func CalculateCalendarRange(refDate time.Time) (startDate time.Time, endDate time.Time) {
	year, month, _ := refDate.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, refDate.Location())
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	// Weekday counts from Sunday; shift so Monday is 0
	daysToSubtract := (int(firstOfMonth.Weekday()) + 6) % 7
	startDate = firstOfMonth.AddDate(0, 0, -daysToSubtract)

	daysToAdd := (7 - int(lastOfMonth.Weekday())) % 7
	endDate = lastOfMonth.AddDate(0, 0, daysToAdd)

	return startDate, endDate
}

// BuildMonth lays out the month of refDate, flagging the days set in mask and attaching assignments.
func BuildMonth(refDate time.Time, mask weekmask.WeekMask, assignments []*scheduler.Assignment) Month {
	startDate, endDate := CalculateCalendarRange(refDate)
	primaryYear, primaryMonth, _ := refDate.Date()

	scheduled := make(map[string]bool)
	for _, d := range mask.DatesIn(weekmask.Closed(startDate, endDate)) {
		scheduled[d.Format(constants.DateFormat)] = true
	}

	assignmentMap := make(map[string]*scheduler.Assignment)
	for _, a := range assignments {
		if a != nil {
			assignmentMap[a.Date.Format(constants.DateFormat)] = a
		}
	}

	month := Month{Name: fmt.Sprintf("%s %d", primaryMonth, primaryYear)}
	var currentWeek []CalendarDay
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		key := current.Format(constants.DateFormat)
		currentWeek = append(currentWeek, CalendarDay{
			Date:           current,
			DayOfMonth:     current.Day(),
			IsCurrentMonth: current.Month() == primaryMonth && current.Year() == primaryYear,
			Scheduled:      scheduled[key],
			Assignment:     assignmentMap[key],
		})

		if current.Weekday() == time.Sunday {
			month.Weeks = append(month.Weeks, currentWeek)
			currentWeek = nil
		}
	}

	return month
}

const cellWidth = 6

// weekOrder lists the days from Monday to Sunday
var weekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// cellMarker returns the suffix printed after the day number
func cellMarker(day CalendarDay) string {
	switch {
	case day.Assignment != nil && day.Assignment.Participant != "":
		r := []rune(day.Assignment.Participant)
		return strings.ToUpper(string(r[0]))
	case day.Scheduled:
		return "*"
	default:
		return ""
	}
}

// RenderMonth writes the month as a text grid followed by one line per assignment.
// Styling is only applied when w is a terminal.
func RenderMonth(w io.Writer, month Month) error {
	renderer := lipgloss.NewRenderer(w)
	titleStyle := renderer.NewStyle().Bold(true).Width(cellWidth * 7).Align(lipgloss.Center)
	headerStyle := renderer.NewStyle().Faint(true).Width(cellWidth)
	cellStyle := renderer.NewStyle().Width(cellWidth)
	scheduledStyle := cellStyle.Foreground(lipgloss.Color("12"))
	assignedStyle := cellStyle.Bold(true).Foreground(lipgloss.Color("10"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(month.Name))
	b.WriteString("\n")

	header := make([]string, 0, len(weekOrder))
	for _, d := range weekOrder {
		name := weekmask.DayName(d)
		header = append(header, headerStyle.Render(strings.ToUpper(name[:1])+name[1:3]))
	}
	b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, header...), " "))
	b.WriteString("\n")

	var listed []*scheduler.Assignment
	for _, week := range month.Weeks {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			if !day.IsCurrentMonth {
				cells = append(cells, cellStyle.Render(""))
				continue
			}
			text := fmt.Sprintf("%2d%s", day.DayOfMonth, cellMarker(day))
			switch {
			case day.Assignment != nil:
				cells = append(cells, assignedStyle.Render(text))
				listed = append(listed, day.Assignment)
			case day.Scheduled:
				cells = append(cells, scheduledStyle.Render(text))
			default:
				cells = append(cells, cellStyle.Render(text))
			}
		}
		b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
		b.WriteString("\n")
	}

	if len(listed) > 0 {
		b.WriteString("\n")
	}
	for _, a := range listed {
		line := fmt.Sprintf("%s %s  %s (%s)", a.Date.Format(constants.DateFormat), a.Date.Format("Mon"), a.Participant, a.DecisionReason)
		if a.Override {
			line += " [override]"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
