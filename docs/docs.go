// Package docs holds the hand-maintained OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/transactions/available-periods": {
            "get": {
                "description": "Returns the distinct months or quarters in which the user has transactions, newest first",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List periods with data",
                "parameters": [
                    {"type": "string", "description": "User scope", "name": "userId", "in": "query", "required": true},
                    {"type": "string", "description": "MONTHLY (default) or QUARTERLY", "name": "taxFrequency", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/handler.Response"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.AvailablePeriodsResponse"}}}]}},
                    "400": {"description": "Missing userId or invalid frequency", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/transactions/by-country": {
            "get": {
                "description": "Lists SALE and REFUND transactions of the period whose taxable jurisdiction or arrival country matches the country code or its name",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List a jurisdiction's transactions",
                "parameters": [
                    {"type": "string", "description": "User scope", "name": "userId", "in": "query", "required": true},
                    {"type": "integer", "description": "Fiscal year", "name": "year", "in": "query", "required": true},
                    {"type": "string", "description": "Month 1-12 or quarter Q1-Q4", "name": "period", "in": "query", "required": true},
                    {"type": "string", "description": "ISO country code, e.g. ES", "name": "country", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/handler.Response"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.CountryTransactionsResponse"}}}]}},
                    "400": {"description": "Missing parameter or invalid period", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/transactions/summary": {
            "get": {
                "description": "Sums the monetary fields of all SALE and REFUND transactions of the period per taxable jurisdiction, refunds negative",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Aggregate a period by jurisdiction",
                "parameters": [
                    {"type": "string", "description": "User scope", "name": "userId", "in": "query", "required": true},
                    {"type": "integer", "description": "Fiscal year", "name": "year", "in": "query", "required": true},
                    {"type": "string", "description": "Month 1-12 or quarter Q1-Q4", "name": "period", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/handler.Response"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.SummaryResponse"}}}]}},
                    "400": {"description": "Missing parameter or invalid period", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/transactions/summary/export": {
            "get": {
                "description": "Same aggregation as /transactions/summary rendered as a UTF-8 CSV with BOM",
                "produces": ["text/csv"],
                "tags": ["transactions"],
                "summary": "Export period totals as CSV",
                "parameters": [
                    {"type": "string", "description": "User scope", "name": "userId", "in": "query", "required": true},
                    {"type": "integer", "description": "Fiscal year", "name": "year", "in": "query", "required": true},
                    {"type": "string", "description": "Month 1-12 or quarter Q1-Q4", "name": "period", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "400": {"description": "Missing parameter or invalid period", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/transactions/upload": {
            "post": {
                "description": "Ingests a CSV or XLSX marketplace VAT report. Only SALE and REFUND rows of the OSS scheme are stored; rows already stored are ignored",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Upload a VAT transaction report",
                "parameters": [
                    {"type": "file", "description": "Report file (csv, txt or xlsx); the field may also be named csvFile", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "User scope", "name": "userId", "in": "formData", "required": true},
                    {"type": "string", "description": "MONTHLY (default) or QUARTERLY, echoed back", "name": "taxFrequency", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/handler.Response"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.UploadResponse"}}}]}},
                    "400": {"description": "Missing file or userId, unsupported type, invalid frequency", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "429": {"description": "Too many uploads", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Report unreadable or storage failure", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "aggregate.Summary": {
            "type": "object",
            "properties": {
                "countryCode": {"type": "string"},
                "currencyCode": {"type": "string"},
                "transactionCount": {"type": "integer"},
                "totalPriceOfItemsVatExcl": {"type": "number"},
                "totalShipChargeVatExcl": {"type": "number"},
                "totalGiftWrapVatExcl": {"type": "number"},
                "totalValueVatExcl": {"type": "number"},
                "totalPriceOfItemsVat": {"type": "number"},
                "totalShipChargeVat": {"type": "number"},
                "totalGiftWrapVat": {"type": "number"},
                "totalValueVat": {"type": "number"},
                "totalPriceOfItemsVatIncl": {"type": "number"},
                "totalShipChargeVatIncl": {"type": "number"},
                "totalGiftWrapVatIncl": {"type": "number"},
                "totalValueVatIncl": {"type": "number"}
            }
        },
        "domain.TransactionDetail": {
            "type": "object",
            "properties": {
                "fingerprint": {"type": "string"},
                "transactionType": {"type": "string"},
                "transactionDate": {"type": "string"},
                "itemDescription": {"type": "string"},
                "itemQuantity": {"type": "integer"},
                "totalValueVatExcl": {"type": "number"},
                "totalValueVat": {"type": "number"},
                "totalValueVatIncl": {"type": "number"},
                "transactionCurrencyCode": {"type": "string"}
            }
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.AvailablePeriodsResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string", "example": "seller-42"},
                "frequencyApplied": {"type": "string", "example": "MONTHLY"},
                "count": {"type": "integer", "example": 3},
                "periods": {"type": "array", "items": {"$ref": "#/definitions/handler.PeriodItem"}}
            }
        },
        "handler.CountryTransactionsResponse": {
            "type": "object",
            "properties": {
                "country": {"type": "string", "example": "ES"},
                "countryName": {"type": "string", "example": "Spain"},
                "year": {"type": "integer", "example": 2025},
                "period": {"type": "string", "example": "03"},
                "count": {"type": "integer", "example": 12},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/domain.TransactionDetail"}}
            }
        },
        "handler.DateRange": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "2025-04-01T00:00:00Z"},
                "end": {"type": "string", "example": "2025-07-01T00:00:00Z"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/handler.APIError"}
            }
        },
        "handler.PeriodItem": {
            "type": "object",
            "properties": {
                "year": {"type": "integer", "example": 2025},
                "period": {"type": "string", "example": "Q1"},
                "label": {"type": "string", "example": "Q1 2025"},
                "type": {"type": "string", "example": "QUARTERLY"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {}
            }
        },
        "handler.SummaryResponse": {
            "type": "object",
            "properties": {
                "year": {"type": "integer", "example": 2025},
                "period": {"type": "string", "example": "Q2"},
                "label": {"type": "string", "example": "Q2 2025"},
                "range": {"$ref": "#/definitions/handler.DateRange"},
                "summaries": {"type": "array", "items": {"$ref": "#/definitions/aggregate.Summary"}}
            }
        },
        "handler.UploadResponse": {
            "type": "object",
            "properties": {
                "rows": {"type": "integer", "example": 1200},
                "accepted": {"type": "integer", "example": 1100},
                "inserted": {"type": "integer", "example": 1100},
                "skipped": {"type": "integer", "example": 100},
                "skippedByReason": {"type": "object", "additionalProperties": {"type": "integer"}},
                "frequency": {"type": "string", "example": "MONTHLY"},
                "archiveKey": {"type": "string", "example": "reports/seller-42/2025/04/6f1c.csv"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "OSS VAT Reporting API",
	Description:      "Ingests marketplace VAT transaction reports and aggregates them into EU One-Stop-Shop returns.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
