package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
)

type movieResp struct {
	ID               uint64    `json:"id"`
	Code             int       `json:"code"`
	Title            string    `json:"title"`
	Genre            string    `json:"genre"`
	Description      *string   `json:"description,omitempty"`
	FieldID          uint64    `json:"field_id"`
	ChannelMessageID int       `json:"channel_message_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type seriesResp struct {
	ID               uint64    `json:"id"`
	Code             int       `json:"code"`
	Title            string    `json:"title"`
	Genre            string    `json:"genre"`
	Description      *string   `json:"description,omitempty"`
	FieldID          uint64    `json:"field_id"`
	TotalEpisodes    int       `json:"total_episodes"`
	ChannelMessageID int       `json:"channel_message_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type episodeResp struct {
	ID            uint64 `json:"id"`
	EpisodeNumber int    `json:"episode_number"`
}

func toMovieResp(m model.Movie) movieResp {
	return movieResp{
		ID: m.ID, Code: m.Code, Title: m.Title, Genre: m.Genre,
		Description: m.Description, FieldID: m.FieldID,
		ChannelMessageID: m.ChannelMessageID, CreatedAt: m.CreatedAt,
	}
}

func toSeriesResp(s model.Series) seriesResp {
	return seriesResp{
		ID: s.ID, Code: s.Code, Title: s.Title, Genre: s.Genre,
		Description: s.Description, FieldID: s.FieldID,
		TotalEpisodes: s.TotalEpisodes, ChannelMessageID: s.ChannelMessageID,
		CreatedAt: s.CreatedAt,
	}
}

// ListMovies returns the whole catalogue.
func (h *DashboardHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie fetches one movie by id.
func (h *DashboardHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toMovieResp(*m))
}

// DeleteMovie removes a movie; its code becomes reusable.
func (h *DashboardHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSerials returns every series.
func (h *DashboardHandler) ListSerials(c echo.Context) error {
	serials, err := h.Series.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]seriesResp, 0, len(serials))
	for _, s := range serials {
		out = append(out, toSeriesResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// GetSerial fetches one series with its episode list.
func (h *DashboardHandler) GetSerial(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Series.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "serial not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	episodes, err := h.Series.Episodes(c.Request().Context(), s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	eps := make([]episodeResp, 0, len(episodes))
	for _, ep := range episodes {
		eps = append(eps, episodeResp{ID: ep.ID, EpisodeNumber: ep.EpisodeNumber})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"serial":   toSeriesResp(*s),
		"episodes": eps,
	})
}

// DeleteSerial removes a series with its episodes.
func (h *DashboardHandler) DeleteSerial(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Series.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "serial not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
