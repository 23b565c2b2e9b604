package adapters

// recordSchema describes the output object shared by all adapters. Keys
// mirror the SourceRecord JSON encoding; every field is optional and must be
// omitted rather than guessed.
const recordSchema = `Return a single JSON object with these keys (omit any key not present in the text, never invent values):
{
  "document_number": "protocol or form number as written",
  "sale_date": "transaction date as written",
  "notary": {"name": "", "tax_id": "", "protocol": ""},
  "sellers": [{"name": "", "tax_id": "", "marital_status": "", "spouse_tax_id": "", "share_percent": ""}],
  "buyers": [{"name": "", "tax_id": "", "marital_status": "", "spouse_tax_id": "", "share_percent": ""}],
  "properties": [{
    "cadastral_ref": "20-character referencia catastral",
    "address": "", "type": "", "type_code": "",
    "declared_value": "", "surface_constructed": "", "surface_usable": "", "surface": "",
    "percent_transferred": "",
    "ownership_shares": {"tax id": "percentage"}
  }],
  "sale_breakdown": [{"property_ref": "", "seller_tax_id": "", "buyer_tax_id": "", "percentage": "", "amount": ""}],
  "liquidation": {"declared_value": "", "taxable_base": "", "rate": "", "quota": ""}
}
Copy numbers and dates exactly as they appear, including Spanish thousand separators and decimal commas.`
