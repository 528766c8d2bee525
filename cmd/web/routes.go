package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/config"
	"github.com/AdamBeresnev/super8/internal/httputil"
	"github.com/AdamBeresnev/super8/internal/middleware"
	"github.com/AdamBeresnev/super8/internal/service"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/AdamBeresnev/super8/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxImportSize = 5 << 20

type addPlayerRequest struct {
	Name  string           `json:"name"`
	Group tournament.Group `json:"group"`
}

type scoreRequest struct {
	Player1Score int `json:"player1Score"`
	Player2Score int `json:"player2Score"`
}

type knockoutRequest struct {
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	scoreRequest
}

type knockoutMatchResponse struct {
	Stage     bracket.StageID `json:"stage"`
	Round     bracket.Round   `json:"round"`
	Label1    string          `json:"label1"`
	Label2    string          `json:"label2"`
	Player1ID string          `json:"player1Id,omitempty"`
	Player2ID string          `json:"player2Id,omitempty"`
	Result    *bracket.Result `json:"result"`
	WinnerID  string          `json:"winnerId,omitempty"`
	Stale     bool            `json:"stale"`
}

type knockoutResponse struct {
	Ready      bool                    `json:"ready"`
	Matches    []knockoutMatchResponse `json:"matches"`
	ChampionID string                  `json:"championId,omitempty"`
}

func toKnockoutMatch(m bracket.Match) knockoutMatchResponse {
	return knockoutMatchResponse{
		Stage:     m.Stage,
		Round:     m.Round,
		Label1:    m.Label1,
		Label2:    m.Label2,
		Player1ID: m.Player1ID,
		Player2ID: m.Player2ID,
		Result:    m.Result,
		WinnerID:  m.WinnerID(),
		Stale:     m.Stale,
	}
}

func toKnockout(b bracket.Bracket) knockoutResponse {
	resp := knockoutResponse{Ready: b.Ready, ChampionID: b.ChampionID}
	for _, m := range b.Matches {
		resp.Matches = append(resp.Matches, toKnockoutMatch(m))
	}
	return resp
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.BadRequest(w, "Invalid JSON body", err)
		return false
	}
	return true
}

func groupParam(r *http.Request) tournament.Group {
	return tournament.Group(strings.ToUpper(chi.URLParam(r, "group")))
}

func newPageData(r *http.Request, svc *service.TournamentService) views.PageData {
	t := svc.Tournament()
	groups := make(map[tournament.Group][]tournament.QualificationRow, len(tournament.Groups))
	for _, g := range tournament.Groups {
		groups[g] = t.Qualification(g)
	}
	return views.PageData{
		Editable: middleware.IsEditable(r.Context()),
		Groups:   groups,
		Rankings: t.OverallRankings(),
		Bracket:  views.PrepareBracketData(t.Bracket(), views.NewNames(t.Players)),
	}
}

func newRouter(cfg config.Config, sessionManager *scs.SessionManager, svc *service.TournamentService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadEditable(sessionManager, cfg.AllowEditing))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if err := views.Render(w, r, views.Index(newPageData(r, svc))); err != nil {
			httputil.InternalServerError(w, "Failed to render page", err)
		}
	})

	r.Route("/fragments", func(r chi.Router) {
		r.Get("/standings/{group}", func(w http.ResponseWriter, r *http.Request) {
			group := groupParam(r)
			rows, err := svc.Qualification(group)
			if err != nil {
				httputil.DomainError(w, "Failed to load standings", err)
				return
			}
			if err := views.Render(w, r, views.StandingsTable(group, rows)); err != nil {
				httputil.InternalServerError(w, "Failed to render standings", err)
			}
		})

		r.Get("/knockout", func(w http.ResponseWriter, r *http.Request) {
			t := svc.Tournament()
			data := views.PrepareBracketData(t.Bracket(), views.NewNames(t.Players))
			if err := views.Render(w, r, views.Knockout(data)); err != nil {
				httputil.InternalServerError(w, "Failed to render knockout", err)
			}
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, svc.Players())
		})

		r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
			var req addPlayerRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			player, err := svc.AddPlayer(r.Context(), req.Name, req.Group)
			if err != nil {
				httputil.DomainError(w, "Failed to add player", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, player)
		})

		r.Delete("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.RemovePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
				httputil.DomainError(w, "Failed to remove player", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Route("/groups/{group}", func(r chi.Router) {
			r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
				matches, err := svc.GroupMatches(groupParam(r))
				if err != nil {
					httputil.DomainError(w, "Failed to load matches", err)
					return
				}
				httputil.JSON(w, http.StatusOK, matches)
			})

			r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
				standings, err := svc.Standings(groupParam(r))
				if err != nil {
					httputil.DomainError(w, "Failed to load standings", err)
					return
				}
				httputil.JSON(w, http.StatusOK, standings)
			})

			r.Get("/top4", func(w http.ResponseWriter, r *http.Request) {
				top, err := svc.Top4(groupParam(r))
				if err != nil {
					httputil.DomainError(w, "Failed to load top 4", err)
					return
				}
				httputil.JSON(w, http.StatusOK, top)
			})

			r.Get("/qualification", func(w http.ResponseWriter, r *http.Request) {
				rows, err := svc.Qualification(groupParam(r))
				if err != nil {
					httputil.DomainError(w, "Failed to load qualification", err)
					return
				}
				httputil.JSON(w, http.StatusOK, rows)
			})
		})

		r.Post("/matches/{id}/result", func(w http.ResponseWriter, r *http.Request) {
			var req scoreRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			match, err := svc.RecordMatchResult(r.Context(), chi.URLParam(r, "id"), req.Player1Score, req.Player2Score)
			if err != nil {
				httputil.DomainError(w, "Failed to record result", err)
				return
			}
			httputil.JSON(w, http.StatusOK, match)
		})

		r.Get("/rankings", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, svc.Rankings())
		})

		r.Get("/knockout", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, toKnockout(svc.Bracket()))
		})

		r.Post("/knockout/{stage}", func(w http.ResponseWriter, r *http.Request) {
			var req knockoutRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			stage := bracket.StageID(strings.ToLower(chi.URLParam(r, "stage")))
			match, err := svc.UpdateKnockoutMatch(r.Context(), stage, req.Player1ID, req.Player2ID, req.Player1Score, req.Player2Score)
			if err != nil {
				httputil.DomainError(w, "Failed to record knockout result", err)
				return
			}
			httputil.JSON(w, http.StatusOK, toKnockoutMatch(match))
		})

		r.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			data, err := svc.Export(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to export tournament", err)
				return
			}
			filename := fmt.Sprintf("tournament-%s.json", time.Now().UTC().Format(time.DateOnly))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			w.Write(data)
		})

		r.Post("/import", func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
			file, header, err := r.FormFile("file")
			if err != nil {
				httputil.BadRequest(w, "Missing import file", err)
				return
			}
			defer file.Close()

			if !strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
				httputil.BadRequest(w, "Please select a JSON file", nil)
				return
			}
			data, err := io.ReadAll(file)
			if err != nil {
				httputil.BadRequest(w, "Failed to read import file", err)
				return
			}

			if err := svc.Import(r.Context(), data); err != nil {
				httputil.DomainError(w, "Failed to import tournament", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]int{
				"players": len(svc.Players()),
				"matches": len(svc.Tournament().Matches),
			})
		})

		r.Delete("/storage", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.ClearSaved(r.Context()); err != nil {
				httputil.DomainError(w, "Failed to clear saved data", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}
