package graphql

import (
	"encoding/json"

	"github.com/graphql-go/graphql"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
	"github.com/wichananm65/user-directory/internal/interface/presenter"
	"github.com/wichananm65/user-directory/internal/usecase"
)

type resolver struct {
	uc        usecase.UserUsecase
	presenter *presenter.UserPresenter
	log       logger.Logger
}

func newResolver(uc usecase.UserUsecase, log logger.Logger) *resolver {
	return &resolver{uc: uc, presenter: presenter.NewUserPresenter(), log: log.Action("graphql")}
}

func (r *resolver) users(p graphql.ResolveParams) (interface{}, error) {
	input := usecase.ListUsersInput{
		Page:      intArg(p.Args, "page"),
		Limit:     intArg(p.Args, "limit"),
		Search:    stringArg(p.Args, "search"),
		SortBy:    stringArg(p.Args, "sortBy"),
		SortOrder: stringArg(p.Args, "sortOrder"),
	}
	page, err := r.uc.List(p.Context, input)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.presenter.ToPage(page), nil
}

func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.GetByID(p.Context, id))
}

func (r *resolver) userByEmail(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.uc.GetByEmail(p.Context, stringArg(p.Args, "email"))
	if err != nil {
		return nil, r.fail(err)
	}
	if user == nil {
		return nil, nil
	}
	return r.presenter.ToResponse(user), nil
}

func (r *resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	var input usecase.CreateUserInput
	if err := decodeArg(p.Args, "createUserInput", &input); err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.Create(p.Context, input))
}

func (r *resolver) updateUser(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args)
	if err != nil {
		return nil, r.fail(err)
	}
	var input usecase.UpdateUserInput
	if err := decodeArg(p.Args, "updateUserInput", &input); err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.Update(p.Context, id, input))
}

func (r *resolver) removeUser(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.Delete(p.Context, id))
}

func (r *resolver) activateUser(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.Activate(p.Context, id))
}

func (r *resolver) deactivateUser(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.userResult(r.uc.Deactivate(p.Context, id))
}

func (r *resolver) userResult(user *entity.User, err error) (interface{}, error) {
	if err != nil {
		return nil, r.fail(err)
	}
	return r.presenter.ToResponse(user), nil
}

func (r *resolver) fail(err error) error {
	e := newError(err)
	if e.kind == presenter.KindInternal {
		r.log.Error("resolver failed", err)
	}
	return e
}

func idArg(args map[string]interface{}) (string, error) {
	id := stringArg(args, "id")
	if !entity.IsValidID(id) {
		return "", entity.InvalidIDError()
	}
	return id, nil
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string) *int {
	n, ok := args[key].(int)
	if !ok {
		return nil
	}
	return &n
}

// decodeArg converts an input object argument into its usecase struct.
func decodeArg(args map[string]interface{}, key string, dst any) error {
	raw, err := json.Marshal(args[key])
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return entity.ValidationError("%s is malformed", key)
	}
	return nil
}
