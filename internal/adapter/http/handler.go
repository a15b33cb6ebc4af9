package http

import (
	"context"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}

type Resumes interface {
	List(ctx context.Context, owner uuid.UUID) ([]domain.Resume, error)
	Get(ctx context.Context, id, owner uuid.UUID) (*domain.Resume, error)
	Create(ctx context.Context, owner uuid.UUID, data model.Resume) (*domain.Resume, error)
	Update(ctx context.Context, id, owner uuid.UUID, data model.Resume) (*domain.Resume, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

type Exporter interface {
	ExportPDF(ctx context.Context, id, owner uuid.UUID) (*usecase.Export, error)
	ExportHTML(ctx context.Context, id, owner uuid.UUID) (*usecase.Export, error)
}

type BulletImprover interface {
	Improve(ctx context.Context, text, role string) (string, error)
}

type Handler struct {
	auth     Authenticator
	resumes  Resumes
	exporter Exporter
	improver BulletImprover
}

func NewHandler(auth Authenticator, resumes Resumes, exporter Exporter, improver BulletImprover) *Handler {
	return &Handler{auth: auth, resumes: resumes, exporter: exporter, improver: improver}
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "resume-builder",
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})
	app.Use(RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New())
	h.Register(app)
	return app
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	auth := app.Group("/auth")
	auth.Post("/signup", h.SignUp)
	auth.Post("/login", h.Login)

	requireAuth := RequireAuth(h.auth)

	resumes := app.Group("/resumes", requireAuth)
	resumes.Get("/", h.ListResumes)
	resumes.Post("/", h.CreateResume)
	resumes.Get("/:id", h.GetResume)
	resumes.Put("/:id", h.UpdateResume)
	resumes.Delete("/:id", h.DeleteResume)
	resumes.Post("/:id/export/pdf", h.ExportPDF)
	resumes.Get("/:id/export/pdf", h.ExportPDF)
	resumes.Get("/:id/export/html", h.ExportHTML)

	ai := app.Group("/ai", requireAuth)
	ai.Post("/improve-bullet", h.ImproveBullet)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"accessToken"`
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	tok, err := h.auth.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tokenResp{AccessToken: tok})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	tok, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokenResp{AccessToken: tok})
}

type resumeReq struct {
	Data *model.Resume `json:"data"`
}

func parseResumeReq(c *fiber.Ctx) (model.Resume, error) {
	var req resumeReq
	if err := c.BodyParser(&req); err != nil || req.Data == nil {
		return model.Resume{}, fiber.NewError(fiber.StatusBadRequest, "invalid payload: expected {\"data\": {...}}")
	}
	return *req.Data, nil
}

// pathID parses :id. A malformed id is reported like a missing resume.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.resumes.List(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) CreateResume(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	data, err := parseResumeReq(c)
	if err != nil {
		return err
	}
	r, err := h.resumes.Create(c.UserContext(), owner, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := h.resumes.Get(c.UserContext(), id, owner)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) UpdateResume(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	data, err := parseResumeReq(c)
	if err != nil {
		return err
	}
	r, err := h.resumes.Update(c.UserContext(), id, owner, data)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.resumes.Delete(c.UserContext(), id, owner); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// renderContext is cancelled when the server shuts down so a render in
// flight does not hold the browser open.
func renderContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.UserContext())
	done := c.Context().Done()
	go func() {
		select {
		case <-done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := renderContext(c)
	defer cancel()

	out, err := h.exporter.ExportPDF(ctx, id, owner)
	if err != nil {
		return err
	}
	return sendExport(c, out, true)
}

func (h *Handler) ExportHTML(c *fiber.Ctx) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out, err := h.exporter.ExportHTML(c.UserContext(), id, owner)
	if err != nil {
		return err
	}
	return sendExport(c, out, false)
}

func sendExport(c *fiber.Ctx, out *usecase.Export, attachment bool) error {
	c.Set(fiber.HeaderContentType, out.ContentType)
	if attachment {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	}
	return c.Send(out.Data)
}

type improveReq struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

func (h *Handler) ImproveBullet(c *fiber.Ctx) error {
	var req improveReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	out, err := h.improver.Improve(c.UserContext(), req.Text, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"improvedText": out})
}
