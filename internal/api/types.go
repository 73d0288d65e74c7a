package api

// Product is one catalog entity as the storefront service returns it.
// Products are immutable once fetched; a re-fetch replaces the whole set.
type Product struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Cost     int64  `json:"cost"`
	Rating   int    `json:"rating"`
	Image    string `json:"image"`
}

// CartEntry is the server's view of one cart line. ProductID may reference a
// product the client has not fetched yet; the reconciler tolerates that.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// Credentials is the payload a successful login returns.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type upsertCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}
