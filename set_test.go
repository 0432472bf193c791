package paramcheck_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
)

// serve runs r through set.Guard and returns the recorder and the values the
// handler saw, nil when it was not reached.
func serve(t *testing.T, set *v.Set, r *http.Request) (*httptest.ResponseRecorder, v.Values) {
	t.Helper()
	var got v.Values
	h := set.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = v.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec, got
}

func result(t *testing.T, rec *httptest.ResponseRecorder) v.Result {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var res v.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestSet_RequiredAndChoices(t *testing.T) {
	set := v.Must("List orders\nOrders of the caller.",
		v.Param{Name: "status", Required: true, Choices: []v.Choice{
			{Value: 1, Description: "open"},
			{Value: 2, Description: "closed"},
		}, Msg: "unknown status"},
		v.Param{Name: "page", Check: v.PositiveInt(), Msg: "bad page"},
	)

	rec, got := serve(t, set, httptest.NewRequest(http.MethodGet, "/orders?status=2&page=3", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", got.Get("status"))
	assert.Equal(t, int64(3), got.Get("page"))

	rec, got = serve(t, set, httptest.NewRequest(http.MethodGet, "/orders?status=7&page=x", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, got)
	res := result(t, rec)
	assert.Equal(t, "List orders", res.Name)
	assert.Equal(t, "invalid parameters", res.Msg)
	assert.Equal(t, []v.FieldError{
		{Name: "status", Value: "unknown status"},
		{Name: "page", Value: "must be an integer"},
	}, res.Errors)

	rec, _ = serve(t, set, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{{Name: "status", Value: "required"}}, result(t, rec).Errors)
}

func TestSet_EmptyOptionalValueIsKept(t *testing.T) {
	set := v.Must("Search", v.Param{Name: "q"}, v.Param{Name: "tag"})

	rec, got := serve(t, set, httptest.NewRequest(http.MethodGet, "/?q=", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, got.Has("q"))
	assert.Equal(t, "", got.Get("q"))
	assert.False(t, got.Has("tag"))
}

func TestSet_Messages(t *testing.T) {
	plain := v.CheckFunc(func(context.Context, any) (any, error) { return nil, errors.New("internal detail") })
	set := v.Must("Messages",
		v.Param{Name: "a", Check: plain, Msg: "a is wrong"},
		v.Param{Name: "b", Check: plain},
		v.Param{Name: "c", Check: plain, Description: "the c value"},
		v.Param{Name: "d", Rules: []v.Rule{v.Length(0, 2)}, Msg: "ignored for rules"},
	)

	rec, _ := serve(t, set, httptest.NewRequest(http.MethodGet, "/?a=1&b=1&c=1&d=long", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{
		{Name: "a", Value: "a is wrong"},
		{Name: "b", Value: "invalid value"},
		{Name: "c", Value: "the c value"},
		{Name: "d", Value: "the length must be no more than 2"},
	}, result(t, rec).Errors)
}

func TestSet_DenyStopsWith403(t *testing.T) {
	var reached bool
	set := v.Must("Delete",
		v.Param{Name: "owner", Check: v.CheckFunc(func(context.Context, any) (any, error) {
			return nil, v.Deny("not your order")
		})},
		v.Param{Name: "after", Check: v.CheckFunc(func(context.Context, any) (any, error) {
			reached = true
			return nil, nil
		})},
	)

	rec, got := serve(t, set, httptest.NewRequest(http.MethodGet, "/?owner=1&after=1", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, got)
	assert.False(t, reached)
	res := result(t, rec)
	assert.Equal(t, "owner", res.Name)
	assert.Equal(t, "not your order", res.Msg)
}

func TestSet_CheckerPanicIsRecovered(t *testing.T) {
	set := v.Must("Panics",
		v.Param{Name: "x", Msg: "bad x", Check: v.CheckFunc(func(context.Context, any) (any, error) {
			panic("boom")
		})},
	)

	rec, _ := serve(t, set, httptest.NewRequest(http.MethodGet, "/?x=1", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{{Name: "x", Value: "bad x"}}, result(t, rec).Errors)
}

func TestSet_PathPkAndReplace(t *testing.T) {
	find := func(_ context.Context, key string) (any, error) {
		if key == "7" {
			return "order 7", nil
		}
		return nil, nil
	}
	set := v.Must("Get order",
		v.Param{Name: "pk", In: v.InPath, Check: v.Lookup(find, "no such order"), Replace: "order"},
	)
	mux := http.NewServeMux()
	mux.Handle("GET /orders/{pk}", set.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(v.FromContext(r.Context()).String("order")))
	})))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order 7", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/8", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{{Name: "id", Value: "no such order"}}, result(t, rec).Errors)
}

func TestSet_HeaderAndArrayParams(t *testing.T) {
	set := v.Must("Headers",
		v.Param{Name: "X-Tenant", In: v.InHeader, Required: true},
		v.Param{Name: "ids", Type: v.TypeArray},
		v.Param{Name: "first"},
	)

	r := httptest.NewRequest(http.MethodGet, "/?ids=1,2&ids=3&first=a&first=b", nil)
	r.Header.Set("X-Tenant", "acme")
	rec, got := serve(t, set, r)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "acme", got.Get("X-Tenant"))
	assert.Equal(t, []string{"1", "2", "3"}, got.Get("ids"))
	assert.Equal(t, "a", got.Get("first"))
}

type orderBody struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (o *orderBody) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Item, v.Required),
		v.Field(&o.Count, v.Min(1)),
	}
}

func TestSet_ModelBody(t *testing.T) {
	set := v.Must("Create order", v.Param{Name: "order", Model: orderBody{}, Required: true})

	post := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		return r
	}

	rec, got := serve(t, set, post(`{"data": {"item": "pen", "count": 2}}`))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, &orderBody{Item: "pen", Count: 2}, got.Get("order"))

	rec, _ = serve(t, set, post(`{"count": -1}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{
		{Name: "order.count", Value: "must be no less than 1"},
		{Name: "order.item", Value: "cannot be blank"},
	}, result(t, rec).Errors)

	rec, _ = serve(t, set, post(``))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []v.FieldError{{Name: "order", Value: "required"}}, result(t, rec).Errors)

	rec, _ = serve(t, set, post(`{"item": 5`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request data", result(t, rec).Msg)
}

func TestSet_FormBody(t *testing.T) {
	set := v.Must("Create", v.Param{Name: "name", Required: true, Check: v.Trim()}, v.Param{Name: "active", Check: v.Bool()})

	form := url.Values{"name": {"  pen "}, "active": {"yes"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, got := serve(t, set, r)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "pen", got.Get("name"))
	assert.Equal(t, true, got.Get("active"))
}

func TestSet_Definition(t *testing.T) {
	tests := []struct {
		name   string
		params []v.Param
	}{
		{"no name", []v.Param{{}}},
		{"duplicate", []v.Param{{Name: "a"}, {Name: "a"}}},
		{"two bodies", []v.Param{{Name: "a", In: v.InBody}, {Name: "b", In: v.InBody}}},
		{"unknown location", []v.Param{{Name: "a", In: "cookie"}}},
		{"model outside body", []v.Param{{Name: "a", In: v.InQuery, Model: orderBody{}}}},
		{"form and body", []v.Param{{Name: "a", In: v.InForm}, {Name: "b", In: v.InBody}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.New("broken", tt.params...)
			require.Error(t, err)
			assert.ErrorIs(t, err, v.ErrDefinition)
		})
	}

	assert.Panics(t, func() { v.Must("broken", v.Param{}) })
}

func TestSet_Params(t *testing.T) {
	set, err := v.NewWithOptions("Create", []v.Param{
		{Name: "pk"},
		{Name: "title", Rules: []v.Rule{v.Required}},
		{Name: "start_date"},
	}, v.WithAction("create"))
	require.NoError(t, err)

	assert.Equal(t, "create", set.Action())
	params := set.Params()
	require.Len(t, params, 3)
	assert.Equal(t, "id", params[0].Name)
	assert.True(t, params[0].Required)
	assert.Equal(t, v.TypeInteger, params[0].Type)
	assert.Equal(t, v.InForm, params[1].In)
	assert.True(t, params[1].Required)
	assert.Equal(t, v.TypeDate, params[2].Type)

	// the set's own action wins
	assert.Equal(t, v.InForm, set.ParamsFor("list")[1].In)

	list := v.Must("List", v.Param{Name: "title"})
	assert.Equal(t, v.InQuery, list.ParamsFor("list")[0].In)
	assert.Equal(t, v.InForm, list.ParamsFor("update")[0].In)
}

func TestSet_CustomResponderAndDataFunc(t *testing.T) {
	var status int
	set, err := v.NewWithOptions("Custom", []v.Param{{Name: "a", Required: true}},
		v.WithDataFunc(func(*http.Request) (map[string]any, error) {
			return map[string]any{"a": ""}, nil
		}),
		v.WithResponder(v.ResponderFunc(func(w http.ResponseWriter, _ *http.Request, code int, res *v.Result) {
			status = code
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte(res.Error()))
		})),
	)
	require.NoError(t, err)

	rec, _ := serve(t, set, httptest.NewRequest(http.MethodGet, "/?a=1", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "invalid parameters: a: required;", rec.Body.String())

	empty, err := v.NewWithOptions("Empty lists", []v.Param{{Name: "a", Required: true}, {Name: "b"}},
		v.WithDataFunc(func(*http.Request) (map[string]any, error) {
			return map[string]any{"a": []string{}, "b": []string{}}, nil
		}),
	)
	require.NoError(t, err)
	vals, res := empty.Check(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, vals)
	require.NotNil(t, res)
	assert.Equal(t, []v.FieldError{{Name: "a", Value: "required"}}, res.Errors)
}

func TestSet_ArrayChoices(t *testing.T) {
	set := v.Must("Filter",
		v.Param{Name: "tags", Type: v.TypeArray, Msg: "unknown tag", Choices: []v.Choice{
			{Value: "red"}, {Value: "blue"},
		}},
	)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"repeated", "tags=red&tags=blue", []string{"red", "blue"}},
		{"comma separated", "tags=blue,red", []string{"blue", "red"}},
		{"second repeated value", "tags=red&tags=green", nil},
		{"second comma value", "tags=red,green", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, got := serve(t, set, httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			if tt.want == nil {
				require.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, []v.FieldError{{Name: "tags", Value: "unknown tag"}}, result(t, rec).Errors)
				return
			}
			require.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.want, got.Get("tags"))
		})
	}
}
