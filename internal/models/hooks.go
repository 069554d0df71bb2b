package models

import (
	"strings"

	"gorm.io/gorm"

	"storefront/internal/utils"
	"storefront/internal/utils/htmlsanitize"
)

// Normalizer is implemented by records that clean client input before validation.
type Normalizer interface {
	Normalize()
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (c *Category) Normalize() {
	c.Name = htmlsanitize.StripTags(c.Name)
	c.Description = htmlsanitize.Sanitize(c.Description)
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = c.Name
	}
	c.Slug = utils.Slugify(c.Slug)
}

// BeforeSave covers rows written outside the API, e.g. from the admin panel.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = utils.Slugify(c.Name)
	}
	return nil
}

func (s *Supplier) Normalize() {
	s.Name = htmlsanitize.StripTags(s.Name)
	s.Phone = utils.NormalizePhone(s.Phone)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Notes = htmlsanitize.Sanitize(s.Notes)
}

func (p *Product) Normalize() {
	p.Name = htmlsanitize.StripTags(p.Name)
	p.Description = htmlsanitize.Sanitize(p.Description)
	p.CategoryID = strings.TrimSpace(p.CategoryID)
	p.SupplierID = optional(p.SupplierID)
}

func (a *Ad) Normalize() {
	a.Title = htmlsanitize.StripTags(a.Title)
	a.Subtitle = htmlsanitize.StripTags(a.Subtitle)
	a.ProductID = optional(a.ProductID)
}

func (o *Order) Normalize() {
	o.CustomerName = htmlsanitize.StripTags(o.CustomerName)
	o.Phone = utils.NormalizePhone(o.Phone)
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	o.Note = htmlsanitize.StripTags(o.Note)
	o.UserID = optional(o.UserID)
}

func (u *User) Normalize() {
	u.Name = htmlsanitize.StripTags(u.Name)
	u.Email = optional(u.Email)
	if u.Email != nil {
		lower := strings.ToLower(*u.Email)
		u.Email = &lower
	}
	u.Phone = optional(u.Phone)
	if u.Phone != nil {
		phone := utils.NormalizePhone(*u.Phone)
		u.Phone = &phone
	}
}

func (l *Lead) Normalize() {
	l.Phone = utils.NormalizePhone(l.Phone)
	l.Name = htmlsanitize.StripTags(l.Name)
	l.Message = htmlsanitize.StripTags(l.Message)
	l.ProductID = optional(l.ProductID)
}

func (w *WhatsappConfig) Normalize() {
	w.PhoneNumber = utils.NormalizePhone(w.PhoneNumber)
	w.Label = htmlsanitize.StripTags(w.Label)
	w.WelcomeMessage = htmlsanitize.StripTags(w.WelcomeMessage)
}

func (n *NotificationConfig) Normalize() {
	n.Key = strings.ToLower(strings.TrimSpace(n.Key))
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	n.Phone = utils.NormalizePhone(n.Phone)
}
