package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gostreams/adapters/mt19937"
	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal/errors"
)

// StreamInfo is one registry entry as listed by GET /streams
type StreamInfo struct {
	Index       int                 `json:"index"`
	Key         core.StreamKey      `json:"key"`
	Dist        stream.Distribution `json:"dist"`
	Shape       stream.Shape        `json:"shape"`
	Initialized bool                `json:"initialized"`
	State       string              `json:"state,omitempty"`
}

type seedRequest struct {
	Seed *int64 `json:"seed"`
}

type checkpointRequest struct {
	Label string `json:"label"`
}

func (s *Server) handleListStreams(w http.ResponseWriter, r *http.Request) {
	random := s.made.Random()
	draws := random.Draws()
	out := make([]StreamInfo, 0, len(draws))
	for i, d := range draws {
		info := StreamInfo{Index: i, Key: d.RNG(), Dist: d.Spec().Dist, Shape: d.Spec().Shape}
		if state, err := random.State(d.RNG()); err == nil {
			info.Initialized = true
			info.State = state.Fingerprint().Short()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeSeed reads {"seed": n}; a missing seed returns ok=false.
func decodeSeed(r *http.Request) (seed uint32, ok bool, err error) {
	var req seedRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, false, errors.InvalidInput("request body must be JSON: " + err.Error())
		}
	}
	if req.Seed == nil {
		return 0, false, nil
	}
	seed, err = core.CheckSeed(*req.Seed)
	if err != nil {
		return 0, false, err
	}
	return seed, true, nil
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	seed, ok, err := decodeSeed(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	random := s.made.Random()
	if !ok {
		seed = random.MasterSeed()
	}
	random.InitializeWithSeed(seed)
	writeJSON(w, http.StatusOK, map[string]interface{}{"seed": seed, "streams": random.Len()})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	seed, ok, err := decodeSeed(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, errors.InvalidInput("seed is required"))
		return
	}
	random := s.made.Random()
	random.Seed(seed)
	writeJSON(w, http.StatusOK, map[string]interface{}{"seed": seed, "streams": random.Len()})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseStreamKey(chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	state, err := s.made.Random().State(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleSetState replaces the stream's generator with a new one carrying
// the posted state.
func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseStreamKey(chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	var state stream.GeneratorState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		s.writeError(w, errors.InvalidInput("state must be JSON: "+err.Error()))
		return
	}

	gen := mt19937.New(0)
	if err := gen.SetState(state); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.made.Random().Set(key, gen); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key.String(), "state": state.Fingerprint().Short()})
}

func (s *Server) handleListMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.made.Methods())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	values, err := s.made.Call(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	list, err := s.checkpoints.List(r.Context(), 50)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req checkpointRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.InvalidInput("request body must be JSON: "+err.Error()))
			return
		}
	}
	cp, err := s.checkpoints.Save(r.Context(), s.made.Random(), req.Label)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": cp.ID, "streams": len(cp.Entries)})
}

func (s *Server) handleRestoreCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCheckpointID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	cp, err := s.checkpoints.Restore(r.Context(), s.made.Random(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": cp.ID, "streams": len(cp.Entries)})
}

func (s *Server) handleDeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCheckpointID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	if err := s.checkpoints.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
