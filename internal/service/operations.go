package service

import (
	"context"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/pipeline"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"github.com/Harshitk-cp/facturador/internal/views"
)

// Operation names accepted by the pipeline.
const (
	OpRegister       = "account.register"
	OpLogin          = "account.login"
	OpUpdateSettings = "settings.update"
	OpCreateClient   = "client.create"
	OpCreateProduct  = "product.create"
	OpCreateInvoice  = "invoice.create"
)

const settingsUpdated = "Settings updated."

// Operations builds the dispatch table for every mutation the back office
// accepts.
func Operations(v *validation.Validator, accounts *AccountService, clients *ClientService, products *ProductService, invoices *InvoiceService) []pipeline.Operation {
	return []pipeline.Operation{
		pipeline.Define(OpRegister, pipeline.Public, v.Register,
			func(ctx context.Context, _ *domain.Identity, reg validation.Registration) (pipeline.Result, error) {
				sess, err := accounts.Register(ctx, reg)
				if err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{
					Outcome: pipeline.SignedIn{Session: sess},
					Stale:   []string{views.Dashboard},
				}, nil
			}),

		pipeline.Define(OpLogin, pipeline.Public, v.Login,
			func(ctx context.Context, _ *domain.Identity, c validation.Credentials) (pipeline.Result, error) {
				sess, err := accounts.Login(ctx, c)
				if err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{Outcome: pipeline.SignedIn{Session: sess}}, nil
			}),

		pipeline.Define(OpUpdateSettings, pipeline.Tenant, v.Settings,
			func(ctx context.Context, caller *domain.Identity, st domain.Settings) (pipeline.Result, error) {
				if _, err := accounts.UpdateSettings(ctx, *caller, st); err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{
					Outcome: pipeline.Status{Success: true, Message: settingsUpdated},
					Stale:   []string{views.Settings, views.Dashboard},
				}, nil
			}),

		pipeline.Define(OpCreateClient, pipeline.Tenant, v.Client,
			func(ctx context.Context, caller *domain.Identity, c domain.Client) (pipeline.Result, error) {
				if _, err := clients.Create(ctx, *caller, c); err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{
					Outcome: pipeline.Redirect{Location: views.Clients},
					Stale:   []string{views.Clients, views.InvoiceCreate, views.Dashboard},
				}, nil
			}),

		pipeline.Define(OpCreateProduct, pipeline.Tenant, v.Product,
			func(ctx context.Context, caller *domain.Identity, p domain.Product) (pipeline.Result, error) {
				if _, err := products.Create(ctx, *caller, p); err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{
					Outcome: pipeline.Redirect{Location: views.Products},
					Stale:   []string{views.Products, views.InvoiceCreate},
				}, nil
			}),

		pipeline.Define(OpCreateInvoice, pipeline.Tenant, v.Invoice,
			func(ctx context.Context, caller *domain.Identity, d validation.InvoiceDraft) (pipeline.Result, error) {
				if _, err := invoices.Create(ctx, *caller, d); err != nil {
					return pipeline.Result{}, err
				}
				return pipeline.Result{
					Outcome: pipeline.Redirect{Location: views.Invoices},
					Stale:   []string{views.Invoices, views.Dashboard},
				}, nil
			}),
	}
}
