package paramcheck_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
	"github.com/Gobd/paramcheck/transform"
)

type valItem struct {
	Name string
}

func (i *valItem) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&i.Name, v.Required, v.Length(1, 50)),
	}
}

type valRegistry map[string]valItem

type valChild struct {
	Name string
}

func (c *valChild) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.Name, v.Required),
	}
}

type valParent struct {
	Title    string
	Children []valChild
}

func (p *valParent) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Title, v.Required),
		v.Field(&p.Children),
	}
}

type valBase struct {
	ID string
}

func (b *valBase) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&b.ID, v.Required),
	}
}

type valWithEmbed struct {
	valBase
	Value string
}

func (w *valWithEmbed) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&w.valBase),
		v.Field(&w.Value, v.Required),
	}
}

type processingFee struct {
	PaymentType string
	Amount      float64
}

func (f *processingFee) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&f.PaymentType, v.Required, v.In("ach", "cc", "wire")),
		v.Field(&f.Amount, v.Required, v.Min(0.0)),
	}
}

type orderWithFees struct {
	Fees []processingFee
}

func (o *orderWithFees) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Fees, v.Unique(func(f any) any { return f.(processingFee).PaymentType })),
	}
}

type paymentMethod string

const (
	paymentACH  paymentMethod = "ach"
	paymentCC   paymentMethod = "cc"
	paymentWire paymentMethod = "wire"
)

func (paymentMethod) ValueRules() []v.Rule {
	return []v.Rule{v.In(paymentACH, paymentCC, paymentWire)}
}

type orderWithTypedPayment struct {
	Method paymentMethod
}

func (o *orderWithTypedPayment) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Method, v.Required),
	}
}

type rating int

func (rating) ValueRules() []v.Rule {
	return []v.Rule{v.Min(1), v.Max(5)}
}

type review struct {
	Rating rating
}

func (r *review) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&r.Rating, v.Required),
	}
}

type normAddress struct {
	Street string
	City   string
}

func (a *normAddress) Normalize() {
	a.City = strings.ToUpper(a.City)
}

type normOrder struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Addresses []normAddress
}

func (o *normOrder) Normalize() {
	transform.TrimSpace(o)
	transform.ToLower(&o.Email)
}

func (o *normOrder) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Name, v.Required),
		v.Field(&o.Email, v.Required),
	}
}

type tenantKey struct{}

type tenantScoped struct {
	Tenant string `json:"tenant"`
}

func (s *tenantScoped) Rules(ctx context.Context) []*v.FieldRules {
	allowed, _ := ctx.Value(tenantKey{}).(string)
	return []*v.FieldRules{
		v.Field(&s.Tenant, v.Required, v.In(allowed)),
	}
}

type payment struct {
	Amount any `json:"amount"`
}

func (p *payment) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Amount, v.Required, v.Min(0.01), v.DecimalMax(2)),
	}
}

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "want validation.Errors, got %T", err)
	return errs
}

func TestValidate_Ruler(t *testing.T) {
	assert.NoError(t, v.Validate(&valItem{Name: "test"}))

	errs := fieldErrors(t, v.Validate(&valItem{}))
	assert.Contains(t, errs, "Name")

	assert.NoError(t, v.Validate("anything"))
	var nilItem *valItem
	assert.NoError(t, v.Validate(nilItem))
}

func TestValidate_Collections(t *testing.T) {
	items := []valItem{{Name: "alpha"}, {Name: ""}}
	assert.Contains(t, fieldErrors(t, v.Validate(&items)), "1")

	reg := valRegistry{"ok": {Name: "alpha"}, "bad": {Name: ""}}
	errs := fieldErrors(t, v.Validate(&reg))
	assert.Contains(t, errs, "bad")
	assert.NotContains(t, errs, "ok")

	var nilItems []valItem
	assert.NoError(t, v.Validate(&nilItems))
	var nilReg valRegistry
	assert.NoError(t, v.Validate(&nilReg))
}

func TestValidate_NestedChildren(t *testing.T) {
	p := valParent{Title: "parent", Children: []valChild{{Name: "child"}}}
	assert.NoError(t, v.Validate(&p))

	p = valParent{Title: "parent", Children: []valChild{{Name: "ok"}, {Name: ""}}}
	errs := fieldErrors(t, v.Validate(&p))
	require.Contains(t, errs, "Children")
	assert.Contains(t, errs["Children"].Error(), "1: ")
}

func TestValidate_EmbeddedErrorsAreFlat(t *testing.T) {
	assert.NoError(t, v.Validate(&valWithEmbed{valBase: valBase{ID: "abc"}, Value: "hello"}))

	errs := fieldErrors(t, v.Validate(&valWithEmbed{Value: "hello"}))
	assert.Contains(t, errs, "ID")
	assert.NotContains(t, errs, "valBase")
}

func TestValidate_UniqueAndElements(t *testing.T) {
	tests := []struct {
		name    string
		fees    []processingFee
		wantErr string
	}{
		{"valid", []processingFee{{"ach", 1.5}, {"cc", 2.99}}, ""},
		{"empty", nil, ""},
		{"duplicate", []processingFee{{"ach", 1.5}, {"ach", 2.99}}, "is repeated"},
		{"bad element", []processingFee{{"bitcoin", 1.5}}, "must be one of ach, cc, wire"},
		{"missing type", []processingFee{{"ach", 1.5}, {"", 2.99}}, "cannot be blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&orderWithFees{Fees: tt.fees})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			errs := fieldErrors(t, err)
			require.Contains(t, errs, "Fees")
			assert.Contains(t, errs["Fees"].Error(), tt.wantErr)
		})
	}
}

func TestValidate_ValueRuler(t *testing.T) {
	assert.NoError(t, v.Validate(&orderWithTypedPayment{Method: paymentACH}))

	err := v.Validate(&orderWithTypedPayment{Method: "bitcoin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")

	err = v.Validate(&orderWithTypedPayment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be blank")

	assert.NoError(t, v.Validate(&review{Rating: 3}))
	assert.Error(t, v.Validate(&review{Rating: 0}))
	assert.Error(t, v.Validate(&review{Rating: 10}))
}

func TestValidate_ContextRuler(t *testing.T) {
	ctx := context.WithValue(context.Background(), tenantKey{}, "acme")

	assert.NoError(t, v.ValidateCtx(ctx, &tenantScoped{Tenant: "acme"}))
	errs := fieldErrors(t, v.ValidateCtx(ctx, &tenantScoped{Tenant: "globex"}))
	assert.Contains(t, errs, "tenant")
}

func TestValidateStruct(t *testing.T) {
	item := valItem{Name: strings.Repeat("x", 51)}
	err := v.ValidateStruct(&item, []*v.FieldRules{v.Field(&item.Name, v.Length(1, 50))})
	assert.Contains(t, fieldErrors(t, err), "Name")
}

func TestRules(t *testing.T) {
	t.Run("in accepts string forms", func(t *testing.T) {
		assert.NoError(t, v.In(1, 2).Validate("2"))
		err := v.In("a", "b", "c").Validate("x")
		require.Error(t, err)
		assert.Equal(t, "must be one of a, b, c, got x", err.Error())
	})
	t.Run("each", func(t *testing.T) {
		r := v.Each(v.In("a", "b", "c"))
		assert.NoError(t, r.Validate([]string{"a", "c"}))
		assert.Error(t, r.Validate([]string{"a", "z"}))
	})
	t.Run("unique", func(t *testing.T) {
		r := v.Unique(nil)
		assert.NoError(t, r.Validate([]string{"a", "b"}))
		assert.NoError(t, r.Validate([]string(nil)))
		assert.EqualError(t, r.Validate([]int{1, 2, 1}), "1 is repeated")
		assert.Error(t, r.Validate(42))
	})
	t.Run("date format", func(t *testing.T) {
		r := v.DateFormat(time.DateOnly).Max(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, r.Validate("2024-02-29"))
		assert.NoError(t, r.Validate(""))
		assert.Error(t, r.Validate("2024-13-01"))
		assert.Error(t, r.Validate("2031-01-01"))
	})
	t.Run("decimal max", func(t *testing.T) {
		r := v.DecimalMax(2)
		assert.NoError(t, r.Validate("1.23"))
		assert.NoError(t, r.Validate("12"))
		assert.Error(t, r.Validate("1.234"))
	})
	t.Run("when", func(t *testing.T) {
		assert.Error(t, v.When(true, "", v.Required).Validate(""))
		assert.NoError(t, v.When(false, "", v.Required).Validate(""))
		assert.Error(t, v.When(false, "", v.Required).Else(v.In("x")).Validate("y"))
	})
	t.Run("doc rules always pass", func(t *testing.T) {
		for _, r := range []v.Rule{v.Describe("d"), v.Default(1), v.Example(2), v.Deprecate()} {
			assert.NoError(t, r.Validate("anything"))
		}
	})
	t.Run("not nil", func(t *testing.T) {
		var p *int
		assert.Error(t, v.NotNil.Validate(p))
		n := 1
		assert.NoError(t, v.NotNil.Validate(&n))
	})
}

func TestUnmarshalAndValidate(t *testing.T) {
	ctx := context.Background()

	var item valItem
	require.NoError(t, v.UnmarshalAndValidate(ctx, []byte(`{"Name":"thing"}`), &item))
	assert.Equal(t, "thing", item.Name)

	err := v.UnmarshalAndValidate(ctx, []byte(`{"Name":`), &item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding body")

	fieldErrors(t, v.UnmarshalAndValidate(ctx, []byte(`{"Name":""}`), &valItem{}))
}

func TestUnmarshalAndValidate_Normalizes(t *testing.T) {
	var o normOrder
	body := `{"name":"  Bob ","email":" BOB@Example.COM","Addresses":[{"Street":" 1 Main St ","City":" springfield "}]}`
	require.NoError(t, v.UnmarshalAndValidate(context.Background(), []byte(body), &o))

	assert.Equal(t, "Bob", o.Name)
	assert.Equal(t, "bob@example.com", o.Email)
	require.Len(t, o.Addresses, 1)
	assert.Equal(t, "1 Main St", o.Addresses[0].Street)
	assert.Equal(t, "SPRINGFIELD", o.Addresses[0].City)

	errs := fieldErrors(t, v.UnmarshalAndValidate(context.Background(), []byte(`{"name":"   ","email":"a@b.c"}`), &normOrder{}))
	assert.Contains(t, errs, "name")
}

func TestUnmarshalAndValidate_Numbers(t *testing.T) {
	var p payment
	require.NoError(t, v.UnmarshalAndValidate(context.Background(), []byte(`{"amount": 10.25}`), &p))
	assert.Equal(t, json.Number("10.25"), p.Amount)

	errs := fieldErrors(t, v.UnmarshalAndValidate(context.Background(), []byte(`{"amount": 0.001}`), &payment{}))
	assert.Contains(t, errs, "amount")

	errs = fieldErrors(t, v.UnmarshalAndValidate(context.Background(), []byte(`{"amount": 1.005}`), &payment{}))
	assert.Equal(t, "no more than 2 decimals", errs["amount"].Error())
}
