package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/w0fv1/GamblerSimulation/sim"
	"github.com/w0fv1/GamblerSimulation/sim/report"
	"github.com/w0fv1/GamblerSimulation/sim/trace"
)

type runView struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	Config    *sim.Config       `json:"config,omitempty"`
	Summary   *trace.RunSummary `json:"summary,omitempty"`
	Rows      []report.Row      `json:"rows,omitempty"`
}

type eventsView struct {
	Events []trace.Record `json:"events"`
	Next   int            `json:"next"`
}

func errorJSON(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// startRun handles the start command. The body is the configuration with
// the wire field names over the defaults; unknown fields and trailing
// data are rejected.
func (s *Server) startRun(c *fiber.Ctx) error {
	cfg := sim.DefaultConfig()
	if body := c.Body(); len(body) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return errorJSON(c, fiber.StatusBadRequest, errors.New("unexpected data after configuration"))
		}
	}

	run, err := s.runs.Start(cfg)
	if err != nil {
		var cerr *sim.ConfigError
		if errors.As(err, &cerr) {
			return errorJSON(c, fiber.StatusBadRequest, err)
		}
		return errorJSON(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(runView{
		ID:        run.ID,
		State:     run.State().String(),
		CreatedAt: run.CreatedAt,
	})
}

func (s *Server) listRuns(c *fiber.Ctx) error {
	runs := s.runs.List()
	out := make([]runView, 0, len(runs))
	for _, run := range runs {
		out = append(out, runView{ID: run.ID, State: run.State().String(), CreatedAt: run.CreatedAt})
	}
	return c.JSON(out)
}

func (s *Server) getRun(c *fiber.Ctx) error {
	run, err := s.runs.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, err)
	}
	cfg := run.Config
	return c.JSON(runView{
		ID:        run.ID,
		State:     run.State().String(),
		CreatedAt: run.CreatedAt,
		Config:    &cfg,
		Summary:   trace.Summarize(run.Trace),
		Rows:      run.Table.Rows(),
	})
}

// runEvents returns every event after the ?since= cursor along with the
// cursor to pass next time.
func (s *Server) runEvents(c *fiber.Ctx) error {
	run, err := s.runs.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, err)
	}
	since := c.QueryInt("since", 0)
	records := run.Trace.Since(since)
	next := max(since, 0)
	if len(records) > 0 {
		next = records[len(records)-1].Seq
	}
	return c.JSON(eventsView{Events: records, Next: next})
}

func (s *Server) cancelRun(c *fiber.Ctx) error {
	cancelled, err := s.runs.Cancel(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":        c.Params("id"),
		"cancelled": cancelled,
	})
}
