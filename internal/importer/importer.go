// Package importer loads cleaned contacts into Close as leads and contacts.
package importer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/close-import/internal/contacts"
	"github.com/sells-group/close-import/pkg/closeio"
)

// Lead custom fields the import populates.
const (
	FieldFounded = "Company Founded"
	FieldRevenue = "Company Revenue"
)

// dryRunPrefix marks lead IDs that were never created in Close.
const dryRunPrefix = "dry-run:"

// FieldIDs holds the Close IDs of the lead custom fields. An ID is empty when
// the field does not exist (only possible in dry-run mode).
type FieldIDs struct {
	Founded string
	Revenue string
}

// Result summarizes an import run.
type Result struct {
	Fields           FieldIDs
	LeadsCreated     int
	LeadsExisting    int
	ContactsCreated  int
	ContactsExisting int
}

// Option configures the Importer.
type Option func(*Importer)

// WithDryRun disables every write to Close. Reads still happen so the run
// reports what it would have created.
func WithDryRun(dryRun bool) Option {
	return func(im *Importer) {
		im.dryRun = dryRun
	}
}

// Importer creates leads and contacts in Close without touching existing ones.
type Importer struct {
	client closeio.Client
	dryRun bool
}

// New creates an Importer backed by client.
func New(client closeio.Client, opts ...Option) *Importer {
	im := &Importer{client: client}
	for _, o := range opts {
		o(im)
	}
	return im
}

// EnsureCustomFields looks up the founded and revenue lead custom fields by
// name and creates whichever is missing.
func (im *Importer) EnsureCustomFields(ctx context.Context) (FieldIDs, error) {
	existing, err := im.client.ListLeadCustomFields(ctx)
	if err != nil {
		return FieldIDs{}, eris.Wrap(err, "importer: list custom fields")
	}

	ids := FindFields(existing)

	if ids.Founded == "" {
		if ids.Founded, err = im.createField(ctx, FieldFounded, closeio.FieldTypeDate); err != nil {
			return FieldIDs{}, err
		}
	}
	if ids.Revenue == "" {
		if ids.Revenue, err = im.createField(ctx, FieldRevenue, closeio.FieldTypeNumber); err != nil {
			return FieldIDs{}, err
		}
	}
	return ids, nil
}

// FindFields returns the IDs of the founded and revenue fields among fields.
// The first field with a matching name wins.
func FindFields(fields []closeio.CustomField) FieldIDs {
	var ids FieldIDs
	for _, f := range fields {
		switch {
		case f.Name == FieldFounded && ids.Founded == "":
			ids.Founded = f.ID
		case f.Name == FieldRevenue && ids.Revenue == "":
			ids.Revenue = f.ID
		}
	}
	return ids
}

func (im *Importer) createField(ctx context.Context, name, fieldType string) (string, error) {
	if im.dryRun {
		zap.L().Info("importer: dry run, would create custom field",
			zap.String("name", name),
			zap.String("type", fieldType),
		)
		return "", nil
	}

	f, err := im.client.CreateLeadCustomField(ctx, closeio.CustomFieldCreate{Name: name, Type: fieldType})
	if err != nil {
		return "", eris.Wrapf(err, "importer: create custom field %q", name)
	}
	zap.L().Info("importer: created custom field",
		zap.String("name", name),
		zap.String("id", f.ID),
	)
	return f.ID, nil
}

// Run imports cs into Close. Companies are handled in first-seen order; a
// company without a lead of the same name gets one, seeded from its first
// contact. A contact is created unless its lead already has a contact with
// the same name.
func (im *Importer) Run(ctx context.Context, cs []contacts.Contact) (*Result, error) {
	fields, err := im.EnsureCustomFields(ctx)
	if err != nil {
		return nil, err
	}

	leads, err := im.client.ListLeads(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "importer: list leads")
	}
	existingContacts, err := im.client.ListContacts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "importer: list contacts")
	}

	zap.L().Info("importer: loaded existing records",
		zap.Int("leads", len(leads)),
		zap.Int("contacts", len(existingContacts)),
	)

	leadIDs := make(map[string]string, len(leads))
	for _, l := range leads {
		if _, ok := leadIDs[l.Name]; !ok {
			leadIDs[l.Name] = l.ID
		}
	}

	seen := make(map[contactKey]bool, len(existingContacts))
	for _, c := range existingContacts {
		seen[contactKey{leadID: c.LeadID, name: c.Name}] = true
	}

	byCompany := make(map[string][]contacts.Contact)
	for _, c := range cs {
		byCompany[c.Company] = append(byCompany[c.Company], c)
	}

	res := &Result{Fields: fields}

	for _, company := range contacts.Companies(cs) {
		leadID, ok := leadIDs[company]
		if ok {
			res.LeadsExisting++
		} else {
			leadID, err = im.createLead(ctx, fields, byCompany[company][0])
			if err != nil {
				return nil, err
			}
			leadIDs[company] = leadID
			res.LeadsCreated++
		}

		for _, c := range byCompany[company] {
			key := contactKey{leadID: leadID, name: c.Name}
			if seen[key] {
				res.ContactsExisting++
				continue
			}
			if err := im.createContact(ctx, leadID, c); err != nil {
				return nil, err
			}
			seen[key] = true
			res.ContactsCreated++
		}
	}

	zap.L().Info("importer: import complete",
		zap.Bool("dry_run", im.dryRun),
		zap.Int("leads_created", res.LeadsCreated),
		zap.Int("leads_existing", res.LeadsExisting),
		zap.Int("contacts_created", res.ContactsCreated),
		zap.Int("contacts_existing", res.ContactsExisting),
	)
	return res, nil
}

type contactKey struct {
	leadID string
	name   string
}

func (im *Importer) createLead(ctx context.Context, fields FieldIDs, seed contacts.Contact) (string, error) {
	req := BuildLead(fields, seed)

	if im.dryRun {
		zap.L().Info("importer: dry run, would create lead", zap.String("company", seed.Company))
		return dryRunPrefix + seed.Company, nil
	}

	lead, err := im.client.CreateLead(ctx, req)
	if err != nil {
		return "", eris.Wrapf(err, "importer: create lead %q", seed.Company)
	}
	zap.L().Debug("importer: created lead",
		zap.String("company", seed.Company),
		zap.String("id", lead.ID),
	)
	return lead.ID, nil
}

func (im *Importer) createContact(ctx context.Context, leadID string, c contacts.Contact) error {
	req := BuildContact(leadID, c)

	if im.dryRun {
		zap.L().Info("importer: dry run, would create contact",
			zap.String("name", c.Name),
			zap.String("company", c.Company),
		)
		return nil
	}

	created, err := im.client.CreateContact(ctx, req)
	if err != nil {
		return eris.Wrapf(err, "importer: create contact %q", c.Name)
	}
	zap.L().Debug("importer: created contact",
		zap.String("name", c.Name),
		zap.String("lead_id", leadID),
		zap.String("id", created.ID),
	)
	return nil
}

// BuildLead maps the seed contact's company data onto a lead create request.
// Missing founded or revenue values are sent as null; the address is only
// set when the state is known.
func BuildLead(fields FieldIDs, seed contacts.Contact) closeio.LeadCreate {
	req := closeio.LeadCreate{
		Name:   seed.Company,
		Custom: make(map[string]any, 2),
	}

	if fields.Founded != "" {
		var founded any
		if seed.Founded != "" {
			iso, ok := contacts.FoundedISO(seed.Founded)
			if !ok {
				zap.L().Warn("importer: founded date is not DD.MM.YYYY, sending as is",
					zap.String("company", seed.Company),
					zap.String("founded", seed.Founded),
				)
			}
			founded = iso
		}
		req.Custom[fields.Founded] = founded
	}

	if fields.Revenue != "" {
		var revenue any
		if v, ok := contacts.RevenueValue(seed.Revenue); ok {
			revenue = v
		} else if seed.Revenue != "" {
			zap.L().Warn("importer: revenue is not a number, sending null",
				zap.String("company", seed.Company),
				zap.String("revenue", seed.Revenue),
			)
		}
		req.Custom[fields.Revenue] = revenue
	}

	if seed.State != "" {
		req.Addresses = []closeio.Address{{State: seed.State}}
	}
	return req
}

// BuildContact maps a cleaned contact onto a contact create request.
func BuildContact(leadID string, c contacts.Contact) closeio.ContactCreate {
	req := closeio.ContactCreate{
		LeadID: leadID,
		Name:   c.Name,
	}
	for _, e := range c.Emails {
		req.Emails = append(req.Emails, closeio.Email{Email: e})
	}
	for _, p := range c.Phones {
		req.Phones = append(req.Phones, closeio.Phone{Phone: p})
	}
	return req
}
