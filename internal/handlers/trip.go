package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/wayfern/wayfern-backend/internal/services"
)

type TripHandler struct {
  tripService services.TripPlanService
}

func NewTripHandler(tripService services.TripPlanService) *TripHandler {
  return &TripHandler{tripService: tripService}
}

// POST /api/trips
func (th *TripHandler) Create(c *gin.Context) {
  var input services.CreateTripPlanInput
  if err := c.ShouldBindJSON(&input); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  plan, err := th.tripService.Create(c.Request.Context(), input)
  if err != nil {
    var verr *services.ValidationError
    if errors.As(err, &verr) {
      c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "fields": verr.Fields})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create the trip"})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"trip": plan})
}

// GET /api/trips/:code
func (th *TripHandler) Detail(c *gin.Context) {
  detail, err := th.tripService.Detail(c.Request.Context(), c.Param("code"))
  if err != nil {
    respondLookupError(c, err)
    return
  }
  c.JSON(http.StatusOK, detail)
}

// GET /api/trips/:code/status
func (th *TripHandler) Status(c *gin.Context) {
  isGenerating, err := th.tripService.Status(c.Request.Context(), c.Param("code"))
  if err != nil {
    respondLookupError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"is_generating": isGenerating})
}

// Find resolves a viewer-submitted access code. Browser form posts get a
// redirect, AJAX posts (X-Requested-With: XMLHttpRequest) get JSON.
//
// POST /api/access
// GET  /api/access
func (th *TripHandler) Find(c *gin.Context) {
  ajax := c.GetHeader("X-Requested-With") == "XMLHttpRequest"
  if c.Request.Method != http.MethodPost {
    c.Redirect(http.StatusFound, "/")
    return
  }

  code := c.PostForm("access_code")
  if code == "" {
    var req struct {
      AccessCode string `json:"access_code"`
    }
    if err := c.ShouldBindJSON(&req); err == nil {
      code = req.AccessCode
    }
  }

  plan, err := th.tripService.FindByAccessCode(c.Request.Context(), code)
  if err != nil {
    var verr *services.ValidationError
    switch {
    case errors.As(err, &verr):
      if ajax {
        c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Fields["access_code"]})
        return
      }
      c.Redirect(http.StatusFound, "/?flash=empty_code")
    case errors.Is(err, services.ErrNotFound):
      if ajax {
        c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
        return
      }
      c.Redirect(http.StatusFound, "/?flash=not_found")
    default:
      if ajax {
        c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "lookup failed"})
        return
      }
      c.Redirect(http.StatusFound, "/")
    }
    return
  }

  redirectURL := "/trips/" + plan.AccessCode
  if ajax {
    c.JSON(http.StatusOK, gin.H{"ok": true, "redirect_url": redirectURL})
    return
  }
  c.Redirect(http.StatusFound, redirectURL)
}

func respondLookupError(c *gin.Context, err error) {
  var verr *services.ValidationError
  switch {
  case errors.As(err, &verr):
    c.JSON(http.StatusBadRequest, gin.H{"error": verr.Fields["access_code"]})
  case errors.Is(err, services.ErrNotFound):
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
  default:
    c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
  }
}
