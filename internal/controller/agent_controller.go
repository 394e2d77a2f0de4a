package controller

import (
	"eduverse-be/internal/dto"
	"eduverse-be/internal/pkg/serverutils"
	"eduverse-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Tutor(ctx *fiber.Ctx) error
	Plan(ctx *fiber.Ctx) error
	Curate(ctx *fiber.Ctx) error
	CreateExam(ctx *fiber.Ctx) error
	EvaluateExam(ctx *fiber.Ctx) error
	AnalyzeSyllabus(ctx *fiber.Ctx) error
	GetLearningPaths(ctx *fiber.Ctx) error
	GetSyllabusResources(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
}

func NewAgentController(agentService service.IAgentService) IAgentController {
	return &agentController{
		agentService: agentService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agents/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("status", c.Status)
	h.Post("tutor", c.Tutor)
	h.Post("planner", c.Plan)
	h.Post("curator", c.Curate)
	h.Post("exam/create", c.CreateExam)
	h.Post("exam/evaluate", c.EvaluateExam)
	h.Post("syllabus/analyze-text", c.AnalyzeSyllabus)
	h.Get("syllabus/paths", c.GetLearningPaths)
	h.Get("syllabus/resources/:pathId", c.GetSyllabusResources)
}

func (c *agentController) Tutor(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.TutorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Tutor(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run tutor agent", res))
}

func (c *agentController) Plan(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.PlannerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Plan(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run planner agent", res))
}

func (c *agentController) Curate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CuratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Curate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run curator agent", res))
}

func (c *agentController) CreateExam(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateExamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.CreateExam(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create exam", res))
}

func (c *agentController) EvaluateExam(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.EvaluateExamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.EvaluateExam(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success evaluate exam", res))
}

func (c *agentController) AnalyzeSyllabus(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AnalyzeSyllabusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.AnalyzeSyllabus(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze syllabus", res))
}

func (c *agentController) GetLearningPaths(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.agentService.GetLearningPaths(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get learning paths", res))
}

func (c *agentController) GetSyllabusResources(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	pathId := ctx.Params("pathId")

	res, err := c.agentService.GetSyllabusResources(ctx.Context(), userId, pathId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get syllabus resources", res))
}

func (c *agentController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get agent status", c.agentService.Status(ctx.Context())))
}
