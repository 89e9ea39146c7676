package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campus-events/core/config"
	"campus-events/core/logger"
	"campus-events/core/utils"

	"github.com/hibiken/asynq"
)

// Worker consumes background tasks. It runs inside the API process alongside
// the HTTP server.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAttendanceReport, HandleAttendanceReport)

	return &Worker{server: server, mux: mux}
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// HandleAttendanceReport renders the attendance report and emails it to the
// event teacher.
func HandleAttendanceReport(ctx context.Context, t *asynq.Task) error {
	var payload AttendanceReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal attendance report payload: %w", err)
	}

	msg := utils.EmailMessage{
		To:      []string{payload.TeacherEmail},
		Subject: fmt.Sprintf("Attendance List for Event %q", payload.EventName),
		HTML:    renderAttendanceHTML(payload),
	}

	if err := utils.SendEmailTLS(msg); err != nil {
		logger.Error("Tasks:HandleAttendanceReport:SendEmailTLS", "error", err, "teacher_email", payload.TeacherEmail)
		return err
	}

	logger.Info("Attendance report sent",
		"event", payload.EventName,
		"teacher_email", payload.TeacherEmail,
		"present_count", len(payload.PresentStudents),
	)
	return nil
}

func renderAttendanceHTML(p AttendanceReportPayload) string {
	var students strings.Builder
	for i, s := range p.PresentStudents {
		fmt.Fprintf(&students, "<li>%d. %s (Roll: %s) - %s</li>", i+1, s.Name, s.RollNumber, s.Email)
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h2>Attendance Report</h2>`)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, p.TeacherName)
	fmt.Fprintf(&b, `<p>Below is the list of students who attended the event <strong>%q</strong> held on <strong>%s</strong> at <strong>%s</strong>.</p>`,
		p.EventName, p.EventDate, p.EventTime)
	fmt.Fprintf(&b, `<h3>Present Students (%d)</h3><ol>%s</ol>`, len(p.PresentStudents), students.String())
	fmt.Fprintf(&b, `<p><strong>Organizer:</strong> %s</p>`, p.OrganizerName)
	b.WriteString(`<hr/><p style="color: #666; font-size: 12px;">This is an automated email from the Campus Events system. Please do not reply.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}
