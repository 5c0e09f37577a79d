package graphql

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over HTTP.
type Handler struct {
	schema graphql.Schema
	log    logger.Logger
}

func NewHandler(schema graphql.Schema, log logger.Logger) *Handler {
	return &Handler{schema: schema, log: log.Action("graphql")}
}

// RegisterRoutes mounts POST and GET /graphql, and the GraphiQL page when
// playground is set. GET only runs queries.
func (h *Handler) RegisterRoutes(router fiber.Router, playground bool) {
	router.Post("/graphql", h.serve)
	router.Get("/graphql", h.serve)
	if playground {
		router.Get("/playground", func(c *fiber.Ctx) error {
			c.Type("html")
			return c.SendString(playgroundHTML)
		})
	}
}

func (h *Handler) serve(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"message": err.Error()}},
		})
	}
	if c.Method() == fiber.MethodGet {
		if op := operationType(req); op != "" && op != ast.OperationTypeQuery {
			c.Set(fiber.HeaderAllow, fiber.MethodPost)
			return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
				"errors": []fiber.Map{{"message": "only queries can be sent with GET"}},
			})
		}
	}
	return c.JSON(h.execute(c, req))
}

// execute runs req against the schema and logs the operation.
func (h *Handler) execute(c *fiber.Ctx, req request) *graphql.Result {
	requestID, _ := c.Locals("requestid").(string)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	operation := req.OperationName
	if operation == "" {
		operation = "anonymous"
	}

	start := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.UserContext(),
	})

	log := h.log.With("requestId", requestID, "operation", operation, "duration", time.Since(start).String())
	if result.HasErrors() {
		log.Warn("operation finished with errors", "errors", len(result.Errors), "first", result.Errors[0].Message)
	} else {
		log.Info("operation finished")
	}
	return result
}

func parseRequest(c *fiber.Ctx) (request, error) {
	var req request
	if c.Method() == fiber.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, fiber.NewError(fiber.StatusBadRequest, "variables must be a JSON object")
			}
		}
	} else if err := json.Unmarshal(c.Body(), &req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "body must be a JSON object")
	}

	if req.Query == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "query is required")
	}
	return req, nil
}

// operationType returns the type of the operation req selects. It returns ""
// when the document does not parse or the selection is ambiguous; execution
// reports those cases.
func operationType(req request) string {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return ""
	}
	var found *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName == "" {
			if found != nil {
				return ""
			}
			found = op
			continue
		}
		if op.Name != nil && op.Name.Value == req.OperationName {
			found = op
			break
		}
	}
	if found == nil {
		return ""
	}
	return found.Operation
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <title>User Directory GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql/graphiql.min.css" />
</head>
<body style="margin: 0;">
  <div id="graphiql" style="height: 100vh;"></div>
  <script crossorigin src="https://unpkg.com/react/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
    ReactDOM.render(React.createElement(GraphiQL, { fetcher }), document.getElementById('graphiql'));
  </script>
</body>
</html>`
