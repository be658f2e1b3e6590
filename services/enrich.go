package services

import (
	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

// Enricher decides, per record, whether ListerPros serviced the listing and
// assigns preferred-photographer labels from the lookup map.
type Enricher struct {
	tables *normalize.Tables
	logger *utils.Logger
}

// NewEnricher creates an Enricher bound to the given lookup tables.
func NewEnricher(tables *normalize.Tables, logger *utils.Logger) *Enricher {
	return &Enricher{tables: tables, logger: logger}
}

// Enrich populates the vendor flag and preferred photographer on every
// record, in place. The attribution chain evaluates in strict priority
// order, first match wins:
//
//  1. an already-affirmative flag is final and left untouched;
//  2. the brand token in either image filename sets the flag;
//  3. a normalized-address hit in the vendor order set sets the flag;
//  4. otherwise the flag stays as it was.
//
// The preferred-photographer lookup is applied independently of the
// attribution outcome. No other fields are touched.
func (e *Enricher) Enrich(rows []*models.Listing, vendorAddresses map[string]struct{}, photographers map[string]string) {
	byFilename, byAddress := 0, 0

	for _, row := range rows {
		if name, ok := photographers[row.AgentEmail]; ok && row.AgentEmail != "" {
			row.PreferredPhotographer = name
		}

		if row.VendorFlag.IsSet() {
			continue
		}

		if e.tables.BrandInFilename(row.ScrapedImageFilename) || e.tables.BrandInFilename(row.ImageFilename) {
			row.VendorFlag = models.VendorYes
			byFilename++
			continue
		}

		if len(vendorAddresses) > 0 && row.FormattedAddress != "" {
			if _, ok := vendorAddresses[e.tables.Address(row.FormattedAddress)]; ok {
				row.VendorFlag = models.VendorYes
				byAddress++
			}
		}
	}

	if byFilename+byAddress > 0 {
		e.logger.Info("[enrich] vendor matches: %d by filename, %d by address (%d total)",
			byFilename, byAddress, byFilename+byAddress)
	}
}

// VendorServiced applies the camera-validity gate on top of the attribution
// flag. This stricter check is what the loyalty and roster counts use: the
// flag is a soft signal, but only a blank camera or the vendor's own body
// counts as a true vendor order.
func (e *Enricher) VendorServiced(l *models.Listing) bool {
	return l.VendorFlag.IsSet() && e.tables.ValidCamera(l.Camera())
}
