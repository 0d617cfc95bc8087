package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/carousel"
	"github.com/chrisdamba/daytrip/internal/view"
)

type Attraction struct {
	Deps
	detail   *models.AttractionDetail
	carousel *carousel.Carousel
	tripTime models.TripTime
	fetcher  carousel.Fetcher
}

func NewAttraction(d Deps) *Attraction {
	return &Attraction{Deps: d, carousel: carousel.New(nil), tripTime: models.TimeMorning}
}

// WithImageFetcher enables Preload.
func (c *Attraction) WithImageFetcher(f carousel.Fetcher) *Attraction {
	c.fetcher = f
	return c
}

// Open loads the attraction whose id is the last segment of path.
func (c *Attraction) Open(ctx context.Context, path string) error {
	id, ok := lastSegmentID(path)
	if !ok {
		c.alertAndLeave(MsgNotFound)
		return models.NewStatusError(http.StatusNotFound, "")
	}

	a, err := c.API.Attraction(ctx, id)
	if err != nil {
		// the server answers an unknown id with 400
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrValidation) {
			c.alertAndLeave(MsgNotFound)
		} else {
			c.logger().Warn("loading attraction failed", "id", id, "error", err)
			c.alertAndLeave(MsgLoadFailed)
		}
		return err
	}

	c.detail = &a
	c.carousel = carousel.New(a.Images)
	c.tripTime = models.TimeMorning
	view.AttractionInfo(c.Render, a)
	view.Indicators(c.Render, c.carousel.Len(), 0)
	if img := c.carousel.CurrentImage(); img != "" {
		view.Transition(c.Render, c.carousel.Len(), carousel.Transition{Image: img})
	}
	view.TripPrice(c.Render, c.tripTime)
	return nil
}

// Preload warms every image of the open attraction.
func (c *Attraction) Preload(ctx context.Context) map[string]error {
	if c.fetcher == nil || c.carousel.Len() == 0 {
		return nil
	}
	failed := carousel.Preload(ctx, c.fetcher, c.carousel.Images(), 4)
	for img, err := range failed {
		c.logger().Debug("image preload failed", "image", img, "error", err)
	}
	return failed
}

func (c *Attraction) Carousel(dir carousel.Direction) {
	if t, ok := c.carousel.Advance(dir); ok {
		view.Transition(c.Render, c.carousel.Len(), t)
	}
}

func (c *Attraction) SelectTime(t models.TripTime) {
	if t.Price() == 0 {
		return
	}
	c.tripTime = t
	view.TripPrice(c.Render, t)
}

func (c *Attraction) TripTime() models.TripTime {
	return c.tripTime
}

func (c *Attraction) Detail() *models.AttractionDetail {
	return c.detail
}

// Book reserves the open attraction on date. Anonymous users get the login
// dialog instead.
func (c *Attraction) Book(ctx context.Context, date string) error {
	if c.detail == nil {
		return models.ErrNotFound
	}
	if !c.Auth.IsAuthenticated(ctx) {
		c.requestLogin()
		return models.ErrAuthRequired
	}
	if strings.TrimSpace(date) == "" {
		c.alert(MsgPickDate)
		return models.ErrValidation
	}

	err := c.Flow.Create(ctx, models.BookingInput{
		AttractionID: c.detail.ID,
		Date:         strings.TrimSpace(date),
		Time:         c.tripTime,
		Price:        c.tripTime.Price(),
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) && models.Message(err) == "" {
			c.alert(MsgPastDate)
			return err
		}
		c.report(err, MsgBookingFailed)
		return err
	}
	c.navigate("/booking")
	return nil
}

func lastSegmentID(path string) (int, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return 0, false
	}
	parts := strings.Split(path, "/")
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
