package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"fbay/internal/auction"
	"fbay/internal/auctionerrors"
	"fbay/internal/clock"
	"fbay/internal/middleware"
	"fbay/internal/services"
)

// ItemHandler handles HTTP requests for items and bids.
type ItemHandler struct {
	items *services.ItemService
	bids  *services.BidService
	media *MediaStore
	clock clock.Clock
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *services.ItemService, bids *services.BidService, media *MediaStore, clk clock.Clock) *ItemHandler {
	return &ItemHandler{
		items: items,
		bids:  bids,
		media: media,
		clock: clk,
	}
}

// RegisterRoutes registers the item routes with the Fiber app.
func (h *ItemHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	itemRoutes := router.Group("/items", guards.Required)
	itemRoutes.Get("/", h.HandleListItems)
	itemRoutes.Post("/", h.HandleCreateItem)
	itemRoutes.Get("/:id", h.HandleGetItem)
	itemRoutes.Put("/:id", h.HandleUpdateItem)
	itemRoutes.Put("/:id/bid", h.HandlePlaceBid)
}

// itemRequest accepts prices as JSON numbers or strings.
type itemRequest struct {
	Title         string      `json:"title" form:"title"`
	Description   string      `json:"desc" form:"desc"`
	StartingPrice json.Number `json:"starting_price" form:"starting_price"`
	EndDate       string      `json:"end_date" form:"end_date"`
}

func (r itemRequest) input() services.ItemInput {
	return services.ItemInput{
		Title:         r.Title,
		Description:   r.Description,
		StartingPrice: r.StartingPrice.String(),
		EndDate:       r.EndDate,
	}
}

type bidRequest struct {
	BidPrice json.Number `json:"bid_price" form:"bid_price"`
}

// HandleListItems lists all items, filtered by the optional q parameter.
func (h *ItemHandler) HandleListItems(c *fiber.Ctx) error {
	items, err := h.items.ListItems(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, "Could not retrieve items", err)
	}
	return respondOK(c, fiber.StatusOK, newItemViews(items, h.clock.Now()))
}

// HandleGetItem retrieves a single item by its ID.
func (h *ItemHandler) HandleGetItem(c *fiber.Ctx) error {
	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve item", err)
	}
	return respondOK(c, fiber.StatusOK, newItemView(item, h.clock.Now()))
}

// HandleCreateItem lists a new item owned by the caller.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	input := req.input()
	photo, err := h.media.Save(c, "photo", "photos")
	if err != nil {
		return respondError(c, "Failed to create the item", err)
	}
	input.PhotoPath = photo

	item, err := h.items.CreateItem(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		h.media.Discard(photo)
		return respondError(c, "Failed to create the item", err)
	}
	return respondOK(c, fiber.StatusCreated, newItemView(item, h.clock.Now()))
}

// HandleUpdateItem edits an item owned by the caller.
func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	input := req.input()
	photo, err := h.media.Save(c, "photo", "photos")
	if err != nil {
		return respondError(c, "Failed to update the item", err)
	}
	input.PhotoPath = photo

	item, err := h.items.UpdateItem(c.UserContext(), middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		h.media.Discard(photo)
		return respondError(c, "Failed to update the item", err)
	}
	return respondOK(c, fiber.StatusOK, newItemView(item, h.clock.Now()))
}

// HandlePlaceBid places the caller's bid on an item.
func (h *ItemHandler) HandlePlaceBid(c *fiber.Ctx) error {
	var req bidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	price, err := auction.ParsePrice(req.BidPrice.String())
	if err != nil {
		return respondError(c, "Failed to place bid on the item", auctionerrors.Field(auction.BidPriceField, err))
	}

	item, err := h.bids.PlaceBid(c.UserContext(), c.Params("id"), middleware.UserID(c), price)
	if err != nil {
		return respondError(c, "Failed to place bid on the item", err)
	}
	return respondOK(c, fiber.StatusOK, newItemView(item, h.clock.Now()))
}
