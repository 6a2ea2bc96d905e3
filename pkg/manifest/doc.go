// Package manifest reads model catalogs written by hand or exported from a
// host application. The document lists apps, their models and each model's
// fields in declaration order, in JSON, YAML or TOML:
//
//	apps:
//	  - label: shop
//	    models:
//	      - name: Order
//	        module: shop.models
//	        fields:
//	          - {name: id, kind: AutoField}
//	          - {name: total, kind: DecimalField, max_digits: 10, decimal_places: 2}
//	          - {name: status, kind: CharField, max_length: 1, choices: [[p, Pending], [s, Shipped]]}
//	          - {name: customer, kind: ForeignKey, related: crm.Customer}
//
// Fields are editable unless they say otherwise.
package manifest
