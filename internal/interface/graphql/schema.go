package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
	"github.com/wichananm65/user-directory/internal/usecase"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"firstName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"phone":     &graphql.Field{Type: graphql.String},
		"age":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"gender":    &graphql.Field{Type: graphql.String},
		"bio":       &graphql.Field{Type: graphql.String},
		"isActive":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var paginatedUsersType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PaginatedUsers",
	Fields: graphql.Fields{
		"users":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType)))},
		"total":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"page":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"limit":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var createUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"age":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"phone":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"gender":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"bio":       &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"age":       &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"phone":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"gender":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"bio":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"isActive":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

func idArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
}

// NewSchema builds the user directory schema on top of uc.
func NewSchema(uc usecase.UserUsecase, log logger.Logger) (graphql.Schema, error) {
	r := newResolver(uc, log)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewNonNull(paginatedUsersType),
				Args: graphql.FieldConfigArgument{
					"page":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: usecase.DefaultPage},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: usecase.DefaultLimit},
					"search":    &graphql.ArgumentConfig{Type: graphql.String},
					"sortBy":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: usecase.DefaultSortBy},
					"sortOrder": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: usecase.DefaultSortOrder},
				},
				Resolve: r.users,
			},
			"user": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    idArgs(),
				Resolve: r.user,
			},
			"userByEmail": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.userByEmail,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"createUserInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInputType)},
				},
				Resolve: r.createUser,
			},
			"updateUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"id":              &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"updateUserInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInputType)},
				},
				Resolve: r.updateUser,
			},
			"removeUser": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    idArgs(),
				Resolve: r.removeUser,
			},
			"activateUser": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    idArgs(),
				Resolve: r.activateUser,
			},
			"deactivateUser": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    idArgs(),
				Resolve: r.deactivateUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
