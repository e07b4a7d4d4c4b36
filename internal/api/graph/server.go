package graph

import (
	"context"
	"net/http"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/ticketbari/ticketbari/internal/eligibility"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
	"github.com/ticketbari/ticketbari/internal/service"
)

// GraphQLServer serves the read side of the catalog for clients that
// prefer one round trip over several REST calls.
type GraphQLServer struct {
	schema   *graphql.Schema
	handler  *relay.Handler
	resolver *Resolver
}

const schemaString = `
type Eligibility {
  canPay: Boolean!
  isSoldOut: Boolean!
  hasDeparted: Boolean!
  displayLabel: String!
}

type Ticket {
  id: ID!
  title: String!
  image: String!
  from: String!
  to: String!
  transportType: String!
  price: Float!
  quantity: Int!
  departureAt: String!
  perks: [String!]!
  vendorEmail: String!
  verificationStatus: String!
  advertised: Boolean!
  eligibility: Eligibility!
}

type VendorStats {
  vendorEmail: String!
  totalRevenue: Float!
  totalTicketsSold: Int!
  totalTicketsAdded: Int!
}

type Query {
  # Single ticket by id
  ticket(id: ID!): Ticket!

  # Approved tickets, optionally filtered by route and transport
  tickets(from: String, to: String, transportType: String, limit: Int): [Ticket!]!

  # Aggregate sales figures for one vendor
  vendorStats(vendorEmail: String!): VendorStats!
}

schema {
  query: Query
}
`

func NewGraphQLServer(ticketService *service.TicketService, statsService *service.StatsService) *GraphQLServer {
	resolver := NewResolver(ticketService, statsService)

	schema := graphql.MustParseSchema(schemaString, resolver,
		graphql.UseFieldResolvers(),
	)

	handler := &relay.Handler{Schema: schema}

	return &GraphQLServer{
		schema:   schema,
		handler:  handler,
		resolver: resolver,
	}
}

// Handler exposes the relay handler for mounting into the main router.
func (s *GraphQLServer) Handler() http.Handler {
	return s.handler
}

type Resolver struct {
	ticketService *service.TicketService
	statsService  *service.StatsService
}

func NewResolver(ticketService *service.TicketService, statsService *service.StatsService) *Resolver {
	return &Resolver{ticketService: ticketService, statsService: statsService}
}

func (r *Resolver) Ticket(ctx context.Context, args struct{ ID graphql.ID }) (*TicketResolver, error) {
	ticket, err := r.ticketService.Get(string(args.ID))
	if err != nil {
		return nil, err
	}
	return &TicketResolver{ticket: ticket}, nil
}

func (r *Resolver) Tickets(ctx context.Context, args struct {
	From          *string
	To            *string
	TransportType *string
	Limit         *int32
}) ([]*TicketResolver, error) {
	filter := repository.TicketFilter{Limit: 20}
	if args.From != nil {
		filter.From = *args.From
	}
	if args.To != nil {
		filter.To = *args.To
	}
	if args.TransportType != nil {
		filter.TransportType = *args.TransportType
	}
	if args.Limit != nil {
		filter.Limit = int(*args.Limit)
	}

	tickets, err := r.ticketService.Search(filter)
	if err != nil {
		return nil, err
	}

	resolvers := make([]*TicketResolver, len(tickets))
	for i, t := range tickets {
		resolvers[i] = &TicketResolver{ticket: t}
	}
	return resolvers, nil
}

func (r *Resolver) VendorStats(ctx context.Context, args struct{ VendorEmail string }) (*VendorStatsResolver, error) {
	stats, err := r.statsService.VendorStats(args.VendorEmail)
	if err != nil {
		return nil, err
	}
	return &VendorStatsResolver{stats: stats}, nil
}

type TicketResolver struct {
	ticket *model.Ticket
}

func (r *TicketResolver) ID() graphql.ID { return graphql.ID(r.ticket.ID) }
func (r *TicketResolver) Title() string  { return r.ticket.Title }
func (r *TicketResolver) Image() string  { return r.ticket.Image }
func (r *TicketResolver) From() string   { return r.ticket.From }
func (r *TicketResolver) To() string     { return r.ticket.To }
func (r *TicketResolver) TransportType() string {
	return r.ticket.TransportType
}
func (r *TicketResolver) Price() float64 { return r.ticket.Price }
func (r *TicketResolver) Quantity() int32 {
	return int32(r.ticket.Quantity)
}
func (r *TicketResolver) DepartureAt() string {
	return r.ticket.DepartureAt.Format(time.RFC3339)
}
func (r *TicketResolver) Perks() []string {
	if r.ticket.Perks == nil {
		return []string{}
	}
	return r.ticket.Perks
}
func (r *TicketResolver) VendorEmail() string { return r.ticket.VendorEmail }
func (r *TicketResolver) VerificationStatus() string {
	return string(r.ticket.VerificationStatus)
}
func (r *TicketResolver) Advertised() bool { return r.ticket.Advertised }
func (r *TicketResolver) Eligibility() *EligibilityResolver {
	result := eligibility.ForTicket(r.ticket, time.Now())
	return &EligibilityResolver{result: result}
}

type EligibilityResolver struct {
	result eligibility.Result
}

func (r *EligibilityResolver) CanPay() bool         { return r.result.CanPay }
func (r *EligibilityResolver) IsSoldOut() bool      { return r.result.SoldOut }
func (r *EligibilityResolver) HasDeparted() bool    { return r.result.Departed }
func (r *EligibilityResolver) DisplayLabel() string { return r.result.Label }

type VendorStatsResolver struct {
	stats *model.VendorStats
}

func (r *VendorStatsResolver) VendorEmail() string { return r.stats.VendorEmail }
func (r *VendorStatsResolver) TotalRevenue() float64 {
	return r.stats.TotalRevenue
}
func (r *VendorStatsResolver) TotalTicketsSold() int32 {
	return int32(r.stats.TotalTicketsSold)
}
func (r *VendorStatsResolver) TotalTicketsAdded() int32 {
	return int32(r.stats.TotalTicketsAdded)
}
