package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

func (s *Server) handleSubtitleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	malID, err := strconv.Atoi(q.Get("animeId"))
	if err != nil || malID <= 0 {
		writeError(w, &apperrors.ErrValidation{Field: "animeId", Reason: "must be a positive integer"})
		return
	}

	season, err := optionalInt(q.Get("season"))
	if err != nil {
		writeError(w, &apperrors.ErrValidation{Field: "season", Reason: "must be an integer"})
		return
	}
	episode, err := optionalInt(q.Get("episode"))
	if err != nil {
		writeError(w, &apperrors.ErrValidation{Field: "episode", Reason: "must be an integer"})
		return
	}

	var languages []string
	if raw := q.Get("languages"); raw != "" {
		for _, lang := range strings.Split(raw, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				languages = append(languages, lang)
			}
		}
	}

	candidates, err := s.subtitles.SearchByAnime(r.Context(), malID, season, episode, languages, q.Get("mapper"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.SubtitleCandidate{"subtitles": candidates})
}

func (s *Server) handleSubtitleDownload(w http.ResponseWriter, r *http.Request) {
	doc, err := s.subtitles.Download(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSubtitleExtract(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		writeError(w, &apperrors.ErrValidation{Field: "start/end", Reason: "both are required"})
		return
	}

	text, err := s.subtitles.ExtractText(r.Context(), chi.URLParam(r, "fileID"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleAnimeSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := s.anime.SearchAnime(r.Context(), q.Get("q"), q.Get("source"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Anime{"results": results})
}

func (s *Server) handleAnimeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	anime, err := s.anime.GetAnime(r.Context(), id, r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, anime)
}

func (s *Server) handleAnimeCharacters(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	characters, err := s.anime.GetCharacters(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Character{"characters": characters})
}

func (s *Server) handleAnimeEpisodes(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	episodes, err := s.anime.GetEpisodes(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Episode{"episodes": episodes})
}

func (s *Server) handleTrackSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, &apperrors.ErrValidation{Field: "limit", Reason: "must be an integer"})
			return
		}
		limit = parsed
	}

	tracks, err := s.tracks.SearchTracks(r.Context(), q.Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Track{"tracks": tracks})
}

func (s *Server) handleTrackDetail(w http.ResponseWriter, r *http.Request) {
	track, err := s.tracks.GetTrack(r.Context(), chi.URLParam(r, "trackID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleChannelInfo(w http.ResponseWriter, r *http.Request) {
	channel, err := s.channels.ChannelInfo(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

func (s *Server) handleChannelVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("maxResults"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, &apperrors.ErrValidation{Field: "maxResults", Reason: "must be an integer"})
			return
		}
		limit = parsed
	}

	videos, err := s.channels.ChannelVideos(r.Context(), q.Get("url"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Video{"videos": videos})
}

// animeID parses the path id, writing a 400 on failure.
func animeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || id <= 0 {
		writeError(w, &apperrors.ErrValidation{Field: "anime id", Reason: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// optionalInt parses a query value that may be absent.
func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
