package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rifathmfm/portfolio-api/internal/profile"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
)

// The profile (hero + about info) is a singleton document. It is held in
// memory for serving and persisted to Mongo when a URI is configured, so the
// read path never depends on the database being up.
var (
	profileMu      sync.RWMutex
	currentProfile = defaultProfile()

	// set by RegisterProfileRoutes when Mongo persistence is available
	profileMongoURI string
	profileDatabase string
)

func defaultProfile() *profile.Profile {
	return &profile.Profile{
		FullName: "Rifath MFM",
		Headline: "Full Stack Developer",
		Tagline:  "Crafting high-performance web and mobile applications.",
		About: "Undergraduate Computer Engineer specializing in innovative, " +
			"user-friendly applications with expertise in machine learning.",
		Address: "123 Main Street, Matara, Sri Lanka",
		School:  "Rahula College, Matara",
		Email:   "mfm.rifath@example.com",
		Phone:   "+94 77 123 4567",
		Socials: []profile.Social{
			{Label: "GitHub", URL: "https://www.github.com"},
			{Label: "LinkedIn", URL: "https://www.linkedin.com"},
			{Label: "Twitter", URL: "https://www.twitter.com"},
		},
	}
}

// RegisterProfileRoutes mounts the profile endpoints. requireAuth guards the
// update route. When mongoURI is non-empty the stored profile is loaded at
// startup and every update is persisted.
func RegisterProfileRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, mongoURI, databaseName string) {
	profileMongoURI = mongoURI
	profileDatabase = databaseName

	rg.GET("/profile", GetProfile)
	rg.PUT("/profile", requireAuth, UpdateProfile)
}

// InitProfile loads the persisted profile into memory; keeps the default on
// any failure. Called once at startup.
func InitProfile(ctx context.Context) {
	if profileMongoURI == "" {
		return
	}
	p, err := profile.Load(ctx, profileMongoURI, profileDatabase)
	if err != nil {
		logger.Warnf("could not load stored profile, serving default: %v", err)
		return
	}
	if p != nil {
		profileMu.Lock()
		currentProfile = p
		profileMu.Unlock()
	}
}

// GetProfile returns the hero/about document.
func GetProfile(c *gin.Context) {
	profileMu.RLock()
	defer profileMu.RUnlock()
	c.JSON(http.StatusOK, currentProfile)
}

// UpdateProfile replaces the profile and persists it when Mongo is configured.
func UpdateProfile(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profileMu.Lock()
	currentProfile = &p
	profileMu.Unlock()

	if err := profile.Save(c.Request.Context(), profileMongoURI, profileDatabase, &p); err != nil {
		logger.Errorf("persist profile failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "profile saved in memory but not persisted"})
		return
	}
	c.JSON(http.StatusOK, &p)
}
