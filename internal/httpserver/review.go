package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
	"github.com/Skotchmaster/safari_vendors/internal/util"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	caller := callerOf(c)
	if err := service.CheckAuthor(caller); err != nil {
		return fail(l, "create_review_error", err)
	}

	productID, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "create_review_error", "id is not a positive integer", nil)
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_review_error", "invalid body", err)
	}

	review, err := h.Svc.CreateReview(ctx, caller, productID, req)
	if err != nil {
		return fail(l, "create_review_error", err)
	}

	l.Info("create_review_success", "review_id", review.ID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) PatchReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.patch")

	productID, ok1 := util.ParseID(c.Param("id"))
	reviewID, ok2 := util.ParseID(c.Param("review_id"))
	if !ok1 || !ok2 {
		return badRequest(l, "patch_review_error", "id is not a positive integer", nil)
	}

	var req transport.PatchReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_review_error", "invalid body", err)
	}

	review, err := h.Svc.UpdateReview(ctx, callerOf(c), productID, reviewID, req)
	if err != nil {
		return fail(l, "patch_review_error", err)
	}

	l.Info("patch_review_success", "review_id", reviewID)
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	productID, ok1 := util.ParseID(c.Param("id"))
	reviewID, ok2 := util.ParseID(c.Param("review_id"))
	if !ok1 || !ok2 {
		return badRequest(l, "delete_review_error", "id is not a positive integer", nil)
	}

	if err := h.Svc.DeleteReview(ctx, callerOf(c), productID, reviewID); err != nil {
		return fail(l, "delete_review_error", err)
	}

	l.Info("delete_review_success", "review_id", reviewID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Review deleted"})
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	productID, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "list_reviews_error", "id is not a positive integer", nil)
	}

	reviews, err := h.Svc.ListReviews(ctx, productID)
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}
