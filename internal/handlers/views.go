package handlers

import (
	"time"

	"fbay/internal/auction"
	"fbay/internal/models"
	"fbay/internal/services"
)

// UserView is the public representation of a user.
type UserView struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	DOB        string  `json:"dob"`
	AvatarPath *string `json:"avatar_path"`
}

// ItemView is the public representation of an item, including the values
// derived from its bid state at render time.
type ItemView struct {
	ID            string    `json:"id"`
	Owner         UserView  `json:"owner"`
	Title         string    `json:"title"`
	Desc          string    `json:"desc"`
	PhotoPath     *string   `json:"photo_path"`
	StartingPrice string    `json:"starting_price"`
	BidPrice      *string   `json:"bid_price"`
	BidUser       *UserView `json:"bid_user"`
	EndDate       time.Time `json:"end_date"`
	CurrentPrice  string    `json:"current_price"`
	HasBids       bool      `json:"has_bids"`
	HasEnded      bool      `json:"has_ended"`
}

// QueryView is the public representation of an item query.
type QueryView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	AskedBy  UserView `json:"asked_by"`
	Answer   *string  `json:"answer"`
}

func mediaURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := MediaPrefix + "/" + *path
	return &url
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		DOB:        u.DOB.Format(services.DateLayout),
		AvatarPath: mediaURL(u.AvatarPath),
	}
}

func newItemView(item *models.Item, now time.Time) ItemView {
	view := ItemView{
		ID:            item.ID,
		Owner:         newUserView(&item.Owner),
		Title:         item.Title,
		Desc:          item.Description,
		PhotoPath:     mediaURL(item.PhotoPath),
		StartingPrice: auction.FormatPrice(item.StartingPrice),
		EndDate:       item.EndDate.UTC(),
		CurrentPrice:  auction.FormatPrice(auction.CurrentPrice(item)),
		HasBids:       auction.HasBids(item),
		HasEnded:      auction.HasEnded(item, now),
	}
	if item.BidPrice.Valid {
		price := auction.FormatPrice(item.BidPrice.Decimal)
		view.BidPrice = &price
	}
	if item.BidUser != nil {
		bidder := newUserView(item.BidUser)
		view.BidUser = &bidder
	}
	return view
}

func newItemViews(items []models.Item, now time.Time) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, newItemView(&items[i], now))
	}
	return views
}

func newQueryView(q *models.ItemQuery) QueryView {
	return QueryView{
		ID:       q.ID,
		Question: q.Question,
		AskedBy:  newUserView(&q.AskedBy),
		Answer:   q.Answer,
	}
}

func newQueryViews(queries []models.ItemQuery) []QueryView {
	views := make([]QueryView, 0, len(queries))
	for i := range queries {
		views = append(views, newQueryView(&queries[i]))
	}
	return views
}
