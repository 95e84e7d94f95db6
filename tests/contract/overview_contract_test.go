package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/service"
)

type stubOverviewService struct {
	overview   dto.OverviewResponse
	transcript dto.TranscriptResponse
}

func (s stubOverviewService) Overview(context.Context, service.Actor) (dto.OverviewResponse, error) {
	return s.overview, nil
}

func (s stubOverviewService) Transcript(context.Context, service.Actor) (dto.TranscriptResponse, error) {
	return s.transcript, nil
}

func compileContract(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()

	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func validateEnvelope(t *testing.T, app *fiber.App, path string, schema *jsonschema.Schema) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestOverviewContract(t *testing.T) {
	schema := compileContract(t, "overview.schema.json")

	now := time.Now().UTC()
	stub := stubOverviewService{
		overview: dto.OverviewResponse{
			UpcomingAssignments: []dto.AssignmentResponse{
				{
					ID:         "a-1",
					CourseID:   "c-1",
					CourseCode: "CSE101",
					Title:      "HW1",
					DueAt:      now.Add(48 * time.Hour),
					Points:     100,
					CreatedAt:  now,
				},
			},
			LatestAnnouncements: []dto.AnnouncementResponse{
				{
					ID:        "n-1",
					CourseID:  "c-1",
					Title:     "Midterm schedule",
					Body:      "Room 204, Thursday 10:00",
					CreatedAt: now,
				},
			},
		},
	}

	app := fiber.New()
	handler.NewOverviewHandler(stub, zerolog.Nop()).Register(app.Group("/api/me"))

	validateEnvelope(t, app, "/api/me/overview", schema)
}

func TestTranscriptContract(t *testing.T) {
	schema := compileContract(t, "transcript.schema.json")

	score := 85.0
	stub := stubOverviewService{
		transcript: dto.TranscriptResponse{
			Rows: []dto.TranscriptRow{
				{
					SubmissionID: "s-1",
					CourseCode:   "CSE101",
					Assignment:   "HW1",
					Points:       100,
					Score:        &score,
					Feedback:     "Good work",
					Graded:       true,
				},
				{
					SubmissionID: "s-2",
					CourseCode:   "CSE101",
					Assignment:   "HW2",
					Points:       50,
					Graded:       false,
				},
			},
			TotalEarned: 85,
			TotalPoints: 100,
			Percentage:  85,
		},
	}

	app := fiber.New()
	handler.NewOverviewHandler(stub, zerolog.Nop()).Register(app.Group("/api/me"))

	validateEnvelope(t, app, "/api/me/transcript", schema)
}
