package mock

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dynohub/addons"
	kiterrors "github.com/dynohub/addons/kit/errors"
	"github.com/dynohub/addons/namegen"
)

// maxNameGenerationN is how many times a generated resource name is
// re-rolled on collision before giving up.
const maxNameGenerationN = 100

// Service implements the add-on subsystem's state transitions against a
// tenant bundle. Every mutation runs to completion before returning;
// failure paths mutate nothing.
type Service struct {
	ids   addons.IDGenerator
	names addons.NameGenerator
	now   func() time.Time
	log   *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIDGenerator sets the unique-identifier generator.
func WithIDGenerator(g addons.IDGenerator) ServiceOption {
	return func(s *Service) {
		s.ids = g
	}
}

// WithNameGenerator sets the resource-name generator.
func WithNameGenerator(g addons.NameGenerator) ServiceOption {
	return func(s *Service) {
		s.names = g
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithServiceLogger sets the service's logger.
func WithServiceLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService returns a Service with clock and generators defaulted for
// production use.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		ids:   namegen.NewUUIDGenerator(),
		names: namegen.NewDefault(),
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateResourceRequest is the input to CreateResource.
type CreateResourceRequest struct {
	App        string // owning app; a minimal record is created on first reference
	Addon      string // "service:plan" or bare service token
	Name       string // requested resource name; generated when empty
	Attachment string // requested default-attachment name; derived when empty
	Force      bool   // replace an existing resource with the requested name
}

// CreateResource provisions a resource and its default attachment,
// synthesizes the attachment's config var on the app, and appends one
// release entry.
func (s *Service) CreateResource(b *Bundle, req CreateResourceRequest) (*addons.Resource, error) {
	name := req.Name
	if name == "" {
		var err error
		if name, err = s.generateResourceName(b); err != nil {
			return nil, err
		}
	} else if b.Resource(name) != nil {
		if !req.Force {
			return nil, ResourceAlreadyExistsError(name)
		}
		if _, err := s.DeleteResource(b, name); err != nil {
			return nil, err
		}
	}

	// Past every failure path; only now touch the bundle.
	app := s.ensureApp(b, req.App)

	res := &addons.Resource{
		ID:        s.ids.ID(),
		Name:      name,
		Plan:      req.Addon,
		AppID:     app.ID,
		CreatedAt: s.now(),
	}
	b.Resources = append(b.Resources, res)

	attachment := req.Attachment
	if attachment == "" {
		attachment = addons.DeriveAttachmentName(name)
	}
	s.attach(b, app.Name, res, attachment)
	s.addRelease(b, app.Name, fmt.Sprintf("Add-on resource add %s/%s", res.Service(), name))

	s.log.Debug("provisioned resource",
		zap.String("resource", name),
		zap.String("app", app.Name))
	return res, nil
}

// DeleteResource removes a resource by name or identifier and cascades:
// every attachment referencing it goes, each such attachment's config var
// goes, and one release is appended per affected app. Returns the
// resource's prior state.
func (s *Service) DeleteResource(b *Bundle, nameOrID string) (*addons.Resource, error) {
	res := b.Resource(nameOrID)
	if res == nil {
		res = b.ResourceByID(nameOrID)
	}
	if res == nil {
		return nil, ErrResourceNotFound(nameOrID)
	}

	// Dependents first so the bundle stays consistent at every step.
	// An app may hold several attachments to the same resource; it still
	// gets exactly one release for the removal.
	removed := map[string][]string{}
	for app, attachments := range b.Attachments {
		kept := attachments[:0]
		for _, at := range attachments {
			if at.ResourceID != res.ID {
				kept = append(kept, at)
				continue
			}
			delete(b.ConfigVars[app], addons.ConfigVarKey(at.Name))
			removed[app] = append(removed[app], at.Name)
		}
		b.Attachments[app] = kept
	}
	for app, names := range removed {
		s.addRelease(b, app, fmt.Sprintf("Add-on resource remove %s", strings.Join(names, ", ")))
	}

	for i, r := range b.Resources {
		if r.ID == res.ID {
			b.Resources = append(b.Resources[:i], b.Resources[i+1:]...)
			break
		}
	}

	s.log.Debug("deprovisioned resource", zap.String("resource", res.Name))
	return res, nil
}

// UpdateResourcePlan changes a resource's plan and appends one release to
// its owning app. Nothing else about the resource changes.
func (s *Service) UpdateResourcePlan(b *Bundle, name, plan string) (*addons.Resource, error) {
	res := b.Resource(name)
	if res == nil {
		return nil, ErrResourceNotFound(name)
	}
	res.Plan = plan

	for _, app := range b.Apps {
		if app.ID == res.AppID {
			s.addRelease(b, app.Name, fmt.Sprintf("Add-on resource upgrade %s", res.Name))
			break
		}
	}
	return res, nil
}

// CreateAttachmentRequest is the input to CreateAttachment.
type CreateAttachmentRequest struct {
	App      string
	Resource string // resource name; a "service/name" prefix is tolerated
	Name     string // attachment name; derived from the resource when empty
	Force    bool   // replace an existing attachment with the requested name
}

// CreateAttachment binds an existing resource into an app's
// configuration: one attachment, its config var, and exactly one release.
// With Force, a prior attachment under the same name is replaced (the
// replacement gets a fresh identifier).
func (s *Service) CreateAttachment(b *Bundle, req CreateAttachmentRequest) (*addons.Attachment, error) {
	resourceName := req.Resource
	if i := strings.IndexByte(resourceName, '/'); i >= 0 {
		resourceName = resourceName[i+1:]
	}
	res := b.Resource(resourceName)
	if res == nil {
		return nil, ErrResourceNotFound(resourceName)
	}

	app := s.ensureApp(b, req.App)

	name := req.Name
	if name == "" {
		name = addons.DeriveAttachmentName(res.Name)
	}

	if prior := b.Attachment(app.Name, name); prior != nil {
		if !req.Force {
			return nil, AttachmentAlreadyExistsError(app.Name, name)
		}
		s.detach(b, app.Name, prior)
	}

	at := s.attach(b, app.Name, res, name)
	s.addRelease(b, app.Name, fmt.Sprintf("Add-on resource add %s/%s", res.Service(), res.Name))
	return at, nil
}

// DeleteAttachmentByID removes an attachment by identifier, wherever it
// is attached, along with its config var, and appends one release to the
// affected app.
func (s *Service) DeleteAttachmentByID(b *Bundle, id string) (*addons.Attachment, error) {
	for app, attachments := range b.Attachments {
		for _, at := range attachments {
			if at.ID == id {
				return s.DeleteAttachment(b, app, at.Name)
			}
		}
	}
	return nil, &kiterrors.Error{
		Code: kiterrors.ENotFound,
		Msg:  fmt.Sprintf("attachment %q not found", id),
	}
}

// DeleteAttachment removes the named attachment from an app along with
// its config var, and appends one release.
func (s *Service) DeleteAttachment(b *Bundle, app, name string) (*addons.Attachment, error) {
	at := b.Attachment(app, name)
	if at == nil {
		return nil, ErrAttachmentNotFound(app, name)
	}

	s.detach(b, app, at)
	s.addRelease(b, app, fmt.Sprintf("Add-on resource remove %s", name))
	return at, nil
}

// Resources returns every resource in the tenant.
func (s *Service) Resources(b *Bundle) []*addons.Resource {
	return append([]*addons.Resource{}, b.Resources...)
}

// FindResource returns the first resource matching filter, or nil.
func (s *Service) FindResource(b *Bundle, filter addons.ResourceFilter) *addons.Resource {
	for _, r := range b.Resources {
		if filter.Name != nil && r.Name != *filter.Name {
			continue
		}
		if filter.App != nil {
			app := b.App(*filter.App)
			if app == nil || r.AppID != app.ID {
				continue
			}
		}
		return r
	}
	return nil
}

// AppAddons returns the resources referenced by an app's attachments.
func (s *Service) AppAddons(b *Bundle, app string) []*addons.Resource {
	out := []*addons.Resource{}
	seen := map[string]bool{}
	for _, at := range b.Attachments[app] {
		if seen[at.ResourceID] {
			continue
		}
		if res := b.ResourceByID(at.ResourceID); res != nil {
			out = append(out, res)
			seen[at.ResourceID] = true
		}
	}
	return out
}

// Attachments returns every attachment across all apps in the tenant.
func (s *Service) Attachments(b *Bundle) []*addons.Attachment {
	out := []*addons.Attachment{}
	for _, attachments := range b.Attachments {
		out = append(out, attachments...)
	}
	return out
}

// AppAttachments returns an app's attachments; absent apps yield the
// empty list, never an error.
func (s *Service) AppAttachments(b *Bundle, app string) []*addons.Attachment {
	return append([]*addons.Attachment{}, b.Attachments[app]...)
}

// AppConfigVars returns an app's config vars; absent apps yield the empty
// map.
func (s *Service) AppConfigVars(b *Bundle, app string) addons.ConfigVars {
	vars := addons.ConfigVars{}
	for k, v := range b.ConfigVars[app] {
		vars[k] = v
	}
	return vars
}

// AppReleases returns an app's release log in append order.
func (s *Service) AppReleases(b *Bundle, app string) []*addons.Release {
	return append([]*addons.Release{}, b.Releases[app]...)
}

func (s *Service) ensureApp(b *Bundle, name string) *addons.App {
	if app := b.App(name); app != nil {
		return app
	}
	app := &addons.App{ID: s.ids.ID(), Name: name}
	b.Apps = append(b.Apps, app)
	return app
}

func (s *Service) generateResourceName(b *Bundle) (string, error) {
	for i := 0; i < maxNameGenerationN; i++ {
		name := s.names.Name()
		if b.Resource(name) == nil {
			return name, nil
		}
	}
	return "", ErrFailureGeneratingName
}

// attach appends the attachment record and synthesizes its config var.
// Releases are the caller's business so force-replacement stays at
// exactly one release.
func (s *Service) attach(b *Bundle, app string, res *addons.Resource, name string) *addons.Attachment {
	now := s.now()
	at := &addons.Attachment{
		ID:           s.ids.ID(),
		Name:         name,
		ResourceID:   res.ID,
		ResourceName: res.Name,
		AppID:        b.App(app).ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.Attachments[app] = append(b.Attachments[app], at)

	if b.ConfigVars[app] == nil {
		b.ConfigVars[app] = addons.ConfigVars{}
	}
	b.ConfigVars[app][addons.ConfigVarKey(name)] = addons.ConfigVarValue(res.Service(), res.Name)
	return at
}

// detach removes the attachment record and its config var without
// touching the release log.
func (s *Service) detach(b *Bundle, app string, at *addons.Attachment) {
	for i, cur := range b.Attachments[app] {
		if cur.ID == at.ID {
			b.Attachments[app] = append(b.Attachments[app][:i], b.Attachments[app][i+1:]...)
			break
		}
	}
	delete(b.ConfigVars[app], addons.ConfigVarKey(at.Name))
}

func (s *Service) addRelease(b *Bundle, app, descr string) {
	b.Releases[app] = append(b.Releases[app], &addons.Release{
		Descr:     descr,
		CreatedAt: s.now(),
	})
}
