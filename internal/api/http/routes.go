package httpapi

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/solartz/solartz/internal/solartime"
	"github.com/solartz/solartz/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. All routes are
// read-only views over the live timezone and the snapshot store.
func RegisterRoutes(app *fiber.App, zone *solartime.LST, snapshots *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/solartime/now", func(c *fiber.Ctx) error {
		offset, err := zone.Offset()
		if err != nil {
			if errors.Is(err, solartime.ErrNoOffset) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "solar offset not available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read offset")
		}

		now, _ := zone.Now()
		return c.JSON(fiber.Map{
			"location":    zone.Location(),
			"coordinates": zone.Coordinates(),
			"offset":      offset.String(),
			"localTime":   now.Format(time.RFC3339Nano),
			"updatedAt":   zone.UpdatedAt(),
		})
	})

	v1.Get("/solartime/events", func(c *fiber.Ctx) error {
		events := zone.Events()

		names := make([]string, 0, len(events))
		for name := range events {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return events[names[i]].Before(events[names[j]])
		})

		type eventView struct {
			Name string    `json:"name"`
			Time time.Time `json:"time"`
		}
		out := make([]eventView, 0, len(names))
		for _, name := range names {
			out = append(out, eventView{Name: name, Time: events[name]})
		}

		return c.JSON(fiber.Map{
			"location":   zone.Location(),
			"events":     out,
			"collisions": zone.Collisions(),
		})
	})

	v1.Get("/solartime/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := snapshots.Range(zone.Location(), req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no snapshots for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch snapshot history")
		}

		return c.JSON(fiber.Map{
			"location":  zone.Location(),
			"from":      req.From,
			"to":        req.To,
			"snapshots": result,
		})
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
