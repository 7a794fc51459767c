package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
	"github.com/roarscore/roarscore-api/window"
)

var errTooManySessions = errors.New("too many sessions")

type sessionPool struct {
	sync.Mutex
	max      int
	gauge    prometheus.Gauge
	sessions map[string]*engine.Session
}

func newSessionPool(max int, gauge prometheus.Gauge) *sessionPool {
	return &sessionPool{
		max:      max,
		gauge:    gauge,
		sessions: make(map[string]*engine.Session),
	}
}

func (p *sessionPool) add(s *engine.Session) error {
	p.Lock()
	defer p.Unlock()

	if len(p.sessions) >= p.max {
		return errTooManySessions
	}
	p.sessions[s.ID] = s
	p.gauge.Set(float64(len(p.sessions)))
	return nil
}

func (p *sessionPool) get(id string) (*engine.Session, bool) {
	p.Lock()
	defer p.Unlock()

	s, ok := p.sessions[id]
	return s, ok
}

func (p *sessionPool) remove(id string) (*engine.Session, bool) {
	p.Lock()
	defer p.Unlock()

	s, ok := p.sessions[id]
	if ok {
		delete(p.sessions, id)
		p.gauge.Set(float64(len(p.sessions)))
	}
	return s, ok
}

func (p *sessionPool) closeAll() {
	p.Lock()
	defer p.Unlock()

	for id, s := range p.sessions {
		s.Close()
		delete(p.sessions, id)
	}
	p.gauge.Set(0)
}

// resolveProfile prefers inline emotion weights over a stored profile.
func (s *Server) resolveProfile(c *gin.Context, profileID string, emotions schema.Profile) (schema.Profile, bool) {
	if len(emotions) > 0 {
		if err := emotions.Validate(); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidProfile, err)
			return nil, false
		}
		return emotions, true
	}

	if profileID == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return nil, false
	}

	p, err := s.store.GetProfile(profileID)
	if errors.Is(err, store.ErrNotFound) {
		abortWithEncoding(c, http.StatusNotFound, errorProfileNotFound)
		return nil, false
	} else if shouldInterupt(err, c) {
		return nil, false
	}
	return p.Emotions, true
}

func (s *Server) createSession(c *gin.Context) {
	var params struct {
		ProfileID string                   `json:"profile_id"`
		Emotions  schema.Profile           `json:"emotions"`
		Schedule  []schema.ScheduleSegment `json:"schedule"`
		Fragments []schema.Fragment        `json:"fragments"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	schedule := params.Schedule
	if len(schedule) == 0 {
		schedule = engine.MergeFragments(params.Fragments)
	}
	if len(schedule) == 0 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	profile, ok := s.resolveProfile(c, params.ProfileID, params.Emotions)
	if !ok {
		return
	}

	session := engine.NewSession(uuid.New().String(), s.engineConfig, profile, s.source, engine.WithStats(s.stats))
	if err := s.sessions.add(session); err != nil {
		session.Close()
		abortWithEncoding(c, http.StatusServiceUnavailable, errorTooManySessions, err)
		return
	}

	if err := session.Init(c.Request.Context(), schedule); err != nil {
		s.sessions.remove(session.ID)
		session.Close()
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       session.ID,
		"schedule": session.Schedule(),
	})
}

// sessionFromPath aborts with 404 when the session is unknown.
func (s *Server) sessionFromPath(c *gin.Context) (*engine.Session, bool) {
	session, ok := s.sessions.get(c.Param("sessionID"))
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorSessionNotFound)
		return nil, false
	}
	return session, true
}

func (s *Server) sessionSnapshot(c *gin.Context) {
	session, ok := s.sessionFromPath(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

type clockParams struct {
	Time *float64 `json:"time" binding:"required"`
}

func (s *Server) advanceSession(c *gin.Context) {
	session, ok := s.sessionFromPath(c)
	if !ok {
		return
	}

	var params clockParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	snap, err := session.Advance(c.Request.Context(), *params.Time)
	if errors.Is(err, window.ErrInvalidOrder) {
		abortWithEncoding(c, http.StatusConflict, errorInvalidOrder, err)
		return
	} else if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (s *Server) seekSession(c *gin.Context) {
	session, ok := s.sessionFromPath(c)
	if !ok {
		return
	}

	var params clockParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	snap, err := session.Seek(c.Request.Context(), *params.Time)
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (s *Server) sessionBoxAt(c *gin.Context) {
	session, ok := s.sessionFromPath(c)
	if !ok {
		return
	}

	x, err := strconv.ParseFloat(c.Query("x"), 64)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	y, err := strconv.ParseFloat(c.Query("y"), 64)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	box, row, found := session.BoxAt(x, y)
	if !found {
		abortWithEncoding(c, http.StatusNotFound, errorNoBox)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"box": box,
		"row": row,
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	session, ok := s.sessions.remove(c.Param("sessionID"))
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorSessionNotFound)
		return
	}
	session.Close()

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
