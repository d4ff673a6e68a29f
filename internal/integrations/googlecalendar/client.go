package googlecalendar

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	pageSize        = 250
	statusCancelled = "cancelled"
)

// Client читает занятые интервалы из календаря Google (Calendar API v3)
type Client struct {
	events     *calendar.EventsService
	calendarID string
	location   *time.Location
	timeout    time.Duration
	log        Logger
}

// NewClient создает клиента календаря calendarID.
// Учётные данные и endpoint передаются через opts (option.WithCredentialsFile, option.WithEndpoint, ...).
// loc - часовой пояс бизнеса, в нём интерпретируются события на весь день.
func NewClient(
	ctx context.Context,
	calendarID string,
	loc *time.Location,
	timeout time.Duration,
	log Logger,
	opts ...option.ClientOption,
) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar service: %v", ErrInternal, err)
	}

	return &Client{
		events:     svc.Events,
		calendarID: calendarID,
		location:   loc,
		timeout:    timeout,
		log:        log,
	}, nil
}

// FetchBusyIntervals возвращает события календаря, пересекающие [from, to).
// Повторяющиеся события разворачиваются в отдельные экземпляры (singleEvents).
// Отменённые события возвращаются с Cancelled = true.
func (c *Client) FetchBusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	call := c.events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		TimeZone(c.location.String()).
		MaxResults(pageSize)

	intervals := make([]domain.BusyInterval, 0)

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, event := range page.Items {
			interval, ok := c.toBusyInterval(event)
			if !ok {
				c.log.Warn("FetchBusyIntervals: skipping event id=%s with unreadable bounds", event.Id)
				continue
			}
			intervals = append(intervals, interval)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: calendar=%s: %v", ErrRequest, c.calendarID, err)
	}

	return intervals, nil
}

func (c *Client) toBusyInterval(event *calendar.Event) (domain.BusyInterval, bool) {
	start, ok := c.eventTime(event.Start)
	if !ok {
		return domain.BusyInterval{}, false
	}
	end, ok := c.eventTime(event.End)
	if !ok || !end.After(start) {
		return domain.BusyInterval{}, false
	}

	return domain.BusyInterval{
		Start:     start,
		End:       end,
		Source:    domain.SourceCalendar,
		Cancelled: event.Status == statusCancelled,
	}, true
}

// eventTime переводит границу события в момент времени.
// Для событий на весь день (только date) берётся полночь в часовом поясе бизнеса.
func (c *Client) eventTime(t *calendar.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}

	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}

	if t.Date != "" {
		date, err := civil.ParseDate(t.Date)
		if err != nil {
			return time.Time{}, false
		}
		return date.In(c.location), true
	}

	return time.Time{}, false
}
