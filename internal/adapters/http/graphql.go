package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	priceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PriceRange",
		Fields: graphql.Fields{
			"min":      &graphql.Field{Type: graphql.Float},
			"max":      &graphql.Field{Type: graphql.Float},
			"currency": &graphql.Field{Type: graphql.String},
			"text": &graphql.Field{
				Type:        graphql.String,
				Description: "Formatted range, e.g. \"3,000-5,000 บาท/เดือน\"",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(*domain.PriceRange); ok {
						return domain.FormatRangeText(r, true), nil
					}
					return nil, nil
				},
			},
		},
	})

	placeFields := func(name string) *graphql.Object {
		return graphql.NewObject(graphql.ObjectConfig{
			Name: name,
			Fields: graphql.Fields{
				"id":          &graphql.Field{Type: graphql.String},
				"name":        &graphql.Field{Type: graphql.String},
				"category":    &graphql.Field{Type: graphql.String},
				"location":    &graphql.Field{Type: geoPointType},
				"amenities":   &graphql.Field{Type: graphql.NewList(graphql.String)},
				"price":       &graphql.Field{Type: priceType},
				"distanceM":   &graphql.Field{Type: graphql.Float},
				"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
				"description": &graphql.Field{Type: graphql.String},
				"address":     &graphql.Field{Type: graphql.String},
				"tags":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			},
		})
	}
	dormType := placeFields("Dorm")
	poiType := placeFields("POI")

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"dorms": &graphql.Field{
				Type:        graphql.NewList(dormType),
				Description: "List dorms, optionally narrowed by name and type",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"types": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 200},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := ports.PlaceQuery{
						Text:  p.Args["query"].(string),
						Limit: p.Args["limit"].(int),
					}
					if raw, ok := p.Args["types"].([]interface{}); ok {
						for _, t := range raw {
							if s, ok := t.(string); ok {
								q.Types = append(q.Types, s)
							}
						}
					}
					return deps.Dorms.List(p.Context, q)
				},
			},
			"dorm": &graphql.Field{
				Type:        dormType,
				Description: "Get a dorm by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Dorms.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"pois": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "List POIs, optionally narrowed by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 500},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category := p.Args["category"].(string)
					limit := p.Args["limit"].(int)
					if category != "" {
						return deps.POIs.ListByCategory(p.Context, category, limit)
					}
					return deps.POIs.List(p.Context, ports.PlaceQuery{Limit: limit})
				},
			},
			"poi": &graphql.Field{
				Type:        poiType,
				Description: "Get a POI by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.POIs.GetByID(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
