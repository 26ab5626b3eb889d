// Package graph exposes a read-only GraphQL view of the catalogue, for
// storefront clients that want a single round trip.
package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/app/services"
	gqlschema "github.com/andreimonforte/malocozz/pkg/graphql"
	"github.com/andreimonforte/malocozz/pkg/response"
)

var sizeStockType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SizeStock",
	Fields: graphql.Fields{
		"label":    &graphql.Field{Type: graphql.String},
		"quantity": &graphql.Field{Type: graphql.Int},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"code":        &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"color":       &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				product, _ := p.Source.(models.Product)
				return product.Price.StringFixed(2), nil
			},
		},
		"category": &graphql.Field{
			Type: categoryType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				product, _ := p.Source.(models.Product)
				return product.Category, nil
			},
		},
		"sizes": &graphql.Field{
			Type: graphql.NewList(sizeStockType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				product, _ := p.Source.(models.Product)
				out := make([]models.SizeStock, 0, len(product.SizeQuantities))
				for _, label := range models.ValidSizes {
					if qty, ok := product.SizeQuantities[label]; ok {
						out = append(out, models.SizeStock{Label: label, Quantity: qty})
					}
				}
				return out, nil
			},
		},
		"totalQuantity": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				product, _ := p.Source.(models.Product)
				return product.TotalQuantity(), nil
			},
		},
	},
})

func rootQuery(products *services.ProductService, categories *services.CategoryService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categories.List()
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.Int},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f repositories.Filter
					if id, ok := p.Args["category"].(int); ok {
						f.CategoryID = uint(id)
					}
					if q, ok := p.Args["search"].(string); ok {
						f.Search = q
					}
					items, _, err := products.List(f, 1, 100)
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					code, _ := p.Args["code"].(string)
					return products.GetByCode(code)
				},
			},
		},
	})
}

// Handler builds the schema once and serves POSTed queries.
func Handler() http.HandlerFunc {
	schema, err := gqlschema.NewSchema(rootQuery(
		services.NewProductService(),
		services.NewCategoryService(),
	))

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "schema unavailable")
			return
		}

		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
