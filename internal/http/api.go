package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"car-market/internal/auth"
	"car-market/internal/domain"
	"car-market/internal/service"
	"car-market/internal/validate"
)

// isoTime matches the millisecond precision clients of this API already parse.
const isoTime = "2006-01-02T15:04:05.000Z07:00"

// Handler wires HTTP routes to domain services.
type Handler struct {
	listings service.ListingService
	users    service.UserService
	tokens   *auth.TokenService
	logger   *logrus.Logger
	limits   RateLimit
}

// RateLimit configures the per client token bucket. Zero RequestsPerMinute disables it.
type RateLimit struct {
	RequestsPerMinute int
	Burst             int
}

func NewHandler(listings service.ListingService, users service.UserService, tokens *auth.TokenService, logger *logrus.Logger, limits RateLimit) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		listings: listings,
		users:    users,
		tokens:   tokens,
		logger:   logger,
		limits:   limits,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware())

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := api.Group("", rateLimit(h.limits.RequestsPerMinute, h.limits.Burst))
	{
		authGroup := limited.Group("/auth")
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	protected := limited.Group("", requireAuth(h.tokens))
	{
		protected.GET("/users/profile", h.getProfile)
		protected.PUT("/users/profile", h.updateProfile)

		protected.GET("/cars", h.listCars)
		protected.POST("/cars", h.createCar)
		protected.GET("/cars/:id", h.getCar)
		protected.PUT("/cars/:id", h.updateCar)
		protected.DELETE("/cars/:id", h.deleteCar)
		protected.PUT("/cars/:id/photo", h.uploadCarPhoto)
	}
}

// bindJSON decodes the body into shape. Fields the shape does not declare are dropped;
// a declared field sent as null is rejected rather than read as absent.
func bindJSON(c *gin.Context, shape any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	if err := validate.RejectNulls(body, shape); err != nil {
		return err
	}
	return validate.DecodeError(binding.JSON.BindBody(body, shape))
}

func (h *Handler) createCar(c *gin.Context) {
	var in service.ListingInput
	if err := bindJSON(c, &in); err != nil {
		h.writeError(c, err)
		return
	}

	car, err := h.listings.Create(c.Request.Context(), c.GetString(callerIDKey), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, carToResponse(car))
}

func (h *Handler) listCars(c *gin.Context) {
	cars, err := h.listings.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]CarResponse, len(cars))
	for i := range cars {
		resp[i] = carToResponse(&cars[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCar(c *gin.Context) {
	car, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carToResponse(car))
}

func (h *Handler) updateCar(c *gin.Context) {
	var in service.ListingUpdateInput
	if err := bindJSON(c, &in); err != nil {
		h.writeError(c, err)
		return
	}

	car, err := h.listings.Update(c.Request.Context(), c.Param("id"), c.GetString(callerIDKey), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carToResponse(car))
}

func (h *Handler) deleteCar(c *gin.Context) {
	if err := h.listings.Delete(c.Request.Context(), c.Param("id"), c.GetString(callerIDKey)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

func (h *Handler) uploadCarPhoto(c *gin.Context) {
	// room for the multipart envelope around the image itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoSize+64<<10)

	header, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, &validate.Error{Field: "photo", Message: `"photo" must be at most 5 MiB`})
			return
		}
		h.writeError(c, &validate.Error{Field: "photo", Message: `"photo" is required`})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	car, err := h.listings.AttachPhoto(c.Request.Context(), c.Param("id"), c.GetString(callerIDKey), service.Photo{
		Body: file,
		Size: header.Size,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carToResponse(car))
}

type OwnerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CarResponse struct {
	ID          string        `json:"id"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	PhotoURL    string        `json:"photoUrl,omitempty"`
	Owner       OwnerResponse `json:"owner"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

func carToResponse(car *domain.ListingDetails) CarResponse {
	return CarResponse{
		ID:          car.ID,
		Brand:       car.Brand,
		Model:       car.Model,
		Year:        car.Year,
		Price:       car.Price,
		Description: car.Description,
		PhotoURL:    car.PhotoURL,
		Owner: OwnerResponse{
			ID:       car.Owner.ID,
			Username: car.Owner.Username,
			Email:    car.Owner.Email,
		},
		CreatedAt: car.CreatedAt.UTC().Format(isoTime),
		UpdatedAt: car.UpdatedAt.UTC().Format(isoTime),
	}
}
