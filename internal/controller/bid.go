package controller

import (
	"net/http"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids", h.PostBid, requireCaller)
	outer.GET("/bids/my", h.GetMyBids, requireCaller)
	outer.GET("/bids/:gigId/list", h.GetGigBids, requireCaller)
	outer.PATCH("/bids/:bidId/hire", h.HireBid, requireCaller)

	return h
}

type postBidInput struct {
	GigId   string  `json:"gigId" validate:"required,max=100"`
	Message string  `json:"message" validate:"required,min=10,max=500"`
	Price   float64 `json:"price" validate:"gte=0"`
}

// /bids
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.CreateBidInput{
		GigId:    input.GigId,
		BidderId: callerId(c),
		Message:  input.Message,
		Price:    input.Price,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusCreated, bid)
	}

	switch err {
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"})
	case service.ErrOwnGigBid:
		return c.JSON(http.StatusForbidden, errorResponse{"You can't bid on your own gig"})
	case service.ErrGigNotOpen:
		return c.JSON(http.StatusBadRequest, errorResponse{"This gig is no longer accepting bids"})
	case service.ErrDuplicateBid:
		return c.JSON(http.StatusConflict, errorResponse{"You have already submitted a bid for this gig"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error creating bid"})
	}
}

// /bids/my
func (h *bidRoutesHandler) GetMyBids(c echo.Context) error {
	bids, err := h.bidService.GetBidderBids(c.Request().Context(), callerId(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error fetching bids"})
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:gigId/list
func (h *bidRoutesHandler) GetGigBids(c echo.Context) error {
	bids, err := h.bidService.GetGigBids(c.Request().Context(), c.Param("gigId"), callerId(c))
	if err == nil {
		return c.JSON(http.StatusOK, bids)
	}

	switch err {
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"})
	case service.ErrNotGigOwner:
		return c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can view its bids"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error fetching bids"})
	}
}

// /bids/:bidId/hire
func (h *bidRoutesHandler) HireBid(c echo.Context) error {
	bid, err := h.bidService.HireBid(c.Request().Context(), c.Param("bidId"), callerId(c))
	if err == nil {
		return c.JSON(http.StatusOK, bid)
	}

	switch err {
	case service.ErrBidNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"})
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no more gig for bid"})
	case service.ErrNotGigOwner:
		return c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can hire"})
	case service.ErrGigNotOpen:
		return c.JSON(http.StatusBadRequest, errorResponse{"This gig has already been assigned"})
	case service.ErrBidNotPending:
		return c.JSON(http.StatusBadRequest, errorResponse{"This bid is no longer pending"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error hiring for gig"})
	}
}
