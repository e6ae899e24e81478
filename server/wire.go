package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/store"
	"github.com/feedmesh/blogroll/pkg/untrusted"
)

// wireTimeFormat is the millisecond-precision UTC timestamp format used on
// the wire, matching the discovery document
const wireTimeFormat = "2006-01-02T15:04:05.000Z"

const (
	defaultPage  = 1
	defaultLimit = 5
)

// wireRecommendation is the snake_case projection of a recommendation. URL
// fields are serialized as absolute strings, a draft from the check endpoint
// carries null id and timestamps.
type wireRecommendation struct {
	ID                *string    `json:"id"`
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Excerpt           *string    `json:"excerpt"`
	FeaturedImage     *string    `json:"featured_image"`
	Favicon           *string    `json:"favicon"`
	URL               *string    `json:"url"`
	OneClickSubscribe bool       `json:"one_click_subscribe"`
	CreatedAt         *string    `json:"created_at"`
	UpdatedAt         *string    `json:"updated_at"`
	Count             *wireCount `json:"count,omitempty"`
}

// wireCount carries the derived counters, present only when requested
type wireCount struct {
	Clicks      *int `json:"clicks,omitempty"`
	Subscribers *int `json:"subscribers,omitempty"`
}

// wireIncoming is the snake_case projection of an incoming recommendation
type wireIncoming struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Excerpt          *string `json:"excerpt"`
	FeaturedImage    *string `json:"featured_image"`
	Favicon          *string `json:"favicon"`
	URL              *string `json:"url"`
	RecommendingBack bool    `json:"recommending_back"`
}

// wirePagination mirrors the pagination meta block, next and prev are null on
// the first and last page
type wirePagination struct {
	Page  int  `json:"page"`
	Limit int  `json:"limit"`
	Pages int  `json:"pages"`
	Total int  `json:"total"`
	Next  *int `json:"next"`
	Prev  *int `json:"prev"`
}

func toWire(p domain.Plain) wireRecommendation {
	out := wireRecommendation{
		Title:             optional(p.Title),
		Description:       p.Description,
		Excerpt:           p.Excerpt,
		FeaturedImage:     urlString(p.FeaturedImage),
		Favicon:           urlString(p.Favicon),
		URL:               urlString(p.URL),
		OneClickSubscribe: p.OneClickSubscribe,
		ID:                optional(p.ID),
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt.UTC().Format(wireTimeFormat)
		out.CreatedAt = &created
	}
	if p.UpdatedAt != nil {
		updated := p.UpdatedAt.UTC().Format(wireTimeFormat)
		out.UpdatedAt = &updated
	}
	if p.ClickCount != nil || p.SubscriberCount != nil {
		out.Count = &wireCount{Clicks: p.ClickCount, Subscribers: p.SubscriberCount}
	}
	return out
}

func toWireIncoming(in service.IncomingRecommendation) wireIncoming {
	return wireIncoming{
		ID:               in.ID,
		Title:            in.Title,
		Excerpt:          in.Excerpt,
		FeaturedImage:    urlString(in.FeaturedImage),
		Favicon:          urlString(in.Favicon),
		URL:              urlString(in.URL),
		RecommendingBack: in.RecommendingBack,
	}
}

func toWirePagination(p service.Pagination) wirePagination {
	out := wirePagination{Page: p.Page, Limit: p.Limit, Pages: p.Pages, Total: p.Total}
	if p.Page > 1 {
		prev := p.Page - 1
		out.Prev = &prev
	}
	if p.Page < p.Pages {
		next := p.Page + 1
		out.Next = &next
	}
	return out
}

// urlString renders an absolute URL, a bare origin gets a trailing slash so
// "https://example.com" serializes as "https://example.com/"
func urlString(u *url.URL) *string {
	if u == nil {
		return nil
	}
	c := *u
	if c.Path == "" {
		c.Path = "/"
	}
	s := c.String()
	return &s
}

// optional maps the empty string to null
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orderFields maps wire order tokens to the store field names, the map keys
// double as the allowed set in validation messages
var orderFields = map[string]string{
	"title":               "title",
	"description":         "description",
	"excerpt":             "excerpt",
	"one_click_subscribe": "oneClickSubscribe",
	"created_at":          "createdAt",
	"updated_at":          "updatedAt",
	"count.clicks":        "clickCount",
	"count.subscribers":   "subscriberCount",
}

const orderFieldList = "title, description, excerpt, one_click_subscribe, created_at, updated_at, count.clicks, count.subscribers"

// parseOrder turns an order expression like "created_at asc, count.clicks"
// into store order clauses, direction defaults to desc. An empty expression
// yields the default creation-time descending order.
func parseOrder(raw string) ([]store.Order, error) {
	if strings.TrimSpace(raw) == "" {
		return []store.Order{{Field: "createdAt", Direction: store.Desc}}, nil
	}

	parts := strings.Split(raw, ",")
	order := make([]store.Order, 0, len(parts))
	for i, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("order.%d.field must be one of %s", i, orderFieldList)}
		}
		field, ok := orderFields[tokens[0]]
		if !ok {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("order.%d.field must be one of %s", i, orderFieldList)}
		}
		direction := store.Desc
		if len(tokens) > 1 {
			switch tokens[1] {
			case "asc":
				direction = store.Asc
			case "desc":
				direction = store.Desc
			default:
				return nil, &domain.ValidationError{Message: fmt.Sprintf("order.%d.direction must be one of asc, desc", i)}
			}
		}
		order = append(order, store.Order{Field: field, Direction: direction})
	}
	return order, nil
}

// parseInclude validates withRelated tokens and maps them to the derived
// count fields the store understands
func parseInclude(tokens []string) ([]string, error) {
	include := make([]string, 0, len(tokens))
	for i, token := range tokens {
		switch token {
		case "count.clicks":
			include = append(include, "clickCount")
		case "count.subscribers":
			include = append(include, "subscriberCount")
		default:
			return nil, &domain.ValidationError{Message: fmt.Sprintf("withRelated.%d must be one of count.clicks, count.subscribers", i)}
		}
	}
	return include, nil
}

// parsePage reads a positive integer query parameter, falling back when absent
func parsePage(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return n, nil
}

// decodeBody reads the request body as JSON into an untrusted view
func decodeBody(r *http.Request) (untrusted.Data, error) {
	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		return untrusted.Data{}, &domain.ValidationError{Message: "body must be valid JSON"}
	}
	return untrusted.New(value), nil
}

// bodyRecommendation extracts the first element of the recommendations array
// every write endpoint wraps its payload in
func bodyRecommendation(body untrusted.Data) (untrusted.Data, error) {
	list, err := body.Key("recommendations")
	if err != nil {
		return untrusted.Data{}, err
	}
	return list.Index(0)
}

// parseAddBody maps an add request onto a plain recommendation, validation of
// the assembled value happens in the domain
func parseAddBody(body untrusted.Data) (domain.Plain, error) {
	rec, err := bodyRecommendation(body)
	if err != nil {
		return domain.Plain{}, err
	}

	var out domain.Plain

	target, err := rec.Key("url")
	if err != nil {
		return domain.Plain{}, err
	}
	if out.URL, err = target.URL(); err != nil {
		return domain.Plain{}, err
	}

	if field, err := rec.OptionalKey("title"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.Title, err = field.StringValue(); err != nil {
			return domain.Plain{}, err
		}
	}
	if field, err := rec.OptionalKey("description"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.Description, err = field.NullableString(); err != nil {
			return domain.Plain{}, err
		}
	}
	if field, err := rec.OptionalKey("excerpt"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.Excerpt, err = field.NullableString(); err != nil {
			return domain.Plain{}, err
		}
	}
	if field, err := rec.OptionalKey("featured_image"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.FeaturedImage, err = field.NullableURL(); err != nil {
			return domain.Plain{}, err
		}
	}
	if field, err := rec.OptionalKey("favicon"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.Favicon, err = field.NullableURL(); err != nil {
			return domain.Plain{}, err
		}
	}
	if field, err := rec.OptionalKey("one_click_subscribe"); err != nil {
		return domain.Plain{}, err
	} else if field != nil {
		if out.OneClickSubscribe, err = field.Bool(); err != nil {
			return domain.Plain{}, err
		}
	}
	return out, nil
}

// parseEditBody maps an edit request onto a patch, only the supplied keys end
// up set so unknown and absent fields never touch the aggregate
func parseEditBody(body untrusted.Data) (domain.Patch, error) {
	rec, err := bodyRecommendation(body)
	if err != nil {
		return domain.Patch{}, err
	}

	var patch domain.Patch

	if field, err := rec.OptionalKey("title"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		title, err := field.StringValue()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Title = domain.Set(title)
	}
	if field, err := rec.OptionalKey("description"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		description, err := field.NullableString()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Description = domain.Set(description)
	}
	if field, err := rec.OptionalKey("excerpt"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		excerpt, err := field.NullableString()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Excerpt = domain.Set(excerpt)
	}
	if field, err := rec.OptionalKey("featured_image"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		image, err := field.NullableURL()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.FeaturedImage = domain.Set(image)
	}
	if field, err := rec.OptionalKey("favicon"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		favicon, err := field.NullableURL()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Favicon = domain.Set(favicon)
	}
	if field, err := rec.OptionalKey("url"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		target, err := field.URL()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.URL = domain.Set(target)
	}
	if field, err := rec.OptionalKey("one_click_subscribe"); err != nil {
		return domain.Patch{}, err
	} else if field != nil {
		oneClick, err := field.Bool()
		if err != nil {
			return domain.Patch{}, err
		}
		patch.OneClickSubscribe = domain.Set(oneClick)
	}
	return patch, nil
}

// parseCheckBody extracts the URL to probe from a check request
func parseCheckBody(body untrusted.Data) (*url.URL, error) {
	rec, err := bodyRecommendation(body)
	if err != nil {
		return nil, err
	}
	target, err := rec.Key("url")
	if err != nil {
		return nil, err
	}
	return target.URL()
}

// parseMemberID reads the optional member id from a tracking request body, an
// empty body means anonymous
func parseMemberID(r *http.Request) (*string, error) {
	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		return nil, nil //nolint:nilerr // missing or empty body means anonymous
	}
	field, err := untrusted.New(value).OptionalKey("member_id")
	if err != nil || field == nil {
		return nil, err
	}
	id, err := field.StringValue()
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError maps domain errors onto status codes, anything unexpected is
// logged and folded into a generic 500 so internals never leak
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		renderJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsNotFound(err):
		renderJSON(w, r, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("[ERROR] %s %s failed: %v", r.Method, r.URL.Path, err)
		renderJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
