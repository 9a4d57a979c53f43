package calendarfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
)

// maxFeedSize предел размера скачиваемого календаря (защита от мусорных фидов)
const maxFeedSize = 5 << 20 // 5 MiB

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для скачивания внешних календарей
type Client struct {
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента внешних календарей.
// Таймаут ограничивает весь запрос: зависший фид не блокирует синхронизацию.
func NewClient(timeout time.Duration, log Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchEvents скачивает и разбирает внешний календарь.
// Ошибки скачивания и разбора различаются: ErrFetchFailed против ErrParseFailed.
func (c *Client) FetchEvents(ctx context.Context, url string) ([]domain.FeedEvent, error) {
	c.log.Info("Fetching calendar feed from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetchFailed, err)
	}

	events, err := ParseCalendar(string(body))
	if err != nil {
		return nil, err
	}

	c.log.Info("Fetched %d events from %s", len(events), url)
	return events, nil
}
