package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
)

func (s *Server) listProfiles(c *gin.Context) {
	profiles, err := s.store.ListProfiles()
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
	})
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.store.GetProfile(c.Param("profileID"))
	if errors.Is(err, store.ErrNotFound) {
		abortWithEncoding(c, http.StatusNotFound, errorProfileNotFound)
		return
	} else if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) saveProfile(c *gin.Context) {
	var params struct {
		Name     string         `json:"name"`
		Emotions schema.Profile `json:"emotions" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	if err := params.Emotions.Validate(); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidProfile, err)
		return
	}

	profile := schema.ReactionProfile{
		ID:       c.Param("profileID"),
		Name:     params.Name,
		Emotions: params.Emotions,
	}
	if err := s.store.SaveProfile(profile); shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, profile)
}
