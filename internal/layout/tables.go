package layout

// canonicalOrder is the order record types appear in the INI summary.
var canonicalOrder = []string{
	CodeA000, CodeA100, CodeB100, CodeB110, CodeC100, CodeD110, CodeD120, CodeM100, CodeZ900,
}

var registry = map[string]RecordType{
	CodeA000: a000,
	CodeA100: a100,
	CodeB100: b100,
	CodeB110: b110,
	CodeC100: c100,
	CodeD110: d110,
	CodeD120: d120,
	CodeM100: m100,
	CodeZ900: z900,
}

// summaryTemplate is the INI record 1050: a record code and how many such records the data file holds.
var summaryTemplate = func() RecordType {
	rt := build("SUMM", "INI summary", 19,
		text(1050, FieldRecordCode, 4),
		num(1051, FieldCount, 15),
	)
	rt.Summary = true
	return rt
}()

var a000 = build(CodeA000, "INI header", 466,
	text(1000, FieldRecordCode, 4),
	text(1001, "reserved", 5),
	num(1002, FieldTotalRecords, 15),
	num(1003, "vat_number", 9),
	num(1004, "primary_id", 15),
	fixed(1005, FieldSystemCode, 8, SystemCode),
	num(1006, "software_registration", 8),
	text(1007, "software_name", 20),
	text(1008, "software_version", 20),
	num(1009, "manufacturer_vat", 9),
	text(1010, "manufacturer_name", 20),
	num(1011, "software_type", 1),
	text(1012, "output_path", 50),
	num(1013, "accounting_type", 1),
	num(1014, "balance_required", 1),
	num(1015, "company_registration", 9),
	num(1016, "withholding_file", 9),
	text(1017, "reserved_2", 10),
	text(1018, "business_name", 50),
	text(1019, "street", 50),
	text(1020, "house_number", 10),
	text(1021, "city", 30),
	text(1022, "zip", 8),
	num(1023, "tax_year", 4),
	date(1024, "period_start"),
	date(1025, "period_end"),
	date(1026, "process_date"),
	clock(1027, "process_time"),
	num(1028, "language_code", 1),
	num(1029, "charset", 1),
	text(1030, "compression_software", 20),
	text(1032, "currency", 3),
	num(1034, "has_branches", 1),
	text(1035, "reserved_3", 46),
)

var a100 = build(CodeA100, "Data file opening record", 95,
	text(1100, FieldRecordCode, 4),
	num(1101, FieldRecordNumber, 9),
	num(1102, "vat_number", 9),
	num(1103, "primary_id", 15),
	fixed(1104, FieldSystemCode, 8, SystemCode),
	text(1105, "reserved", 50),
)

var c100 = build(CodeC100, "Document header", 444,
	text(1200, FieldRecordCode, 4),
	num(1201, FieldRecordNumber, 9),
	num(1202, "vat_number", 9),
	num(1203, "document_type", 3),
	text(1204, "document_number", 20),
	date(1205, "production_date"),
	clock(1206, "production_time"),
	text(1207, "customer_name", 50),
	text(1208, "customer_street", 50),
	text(1209, "customer_house_number", 10),
	text(1210, "customer_city", 30),
	text(1211, "customer_zip", 8),
	text(1212, "customer_country", 30),
	text(1213, "customer_country_code", 2),
	text(1214, "customer_phone", 15),
	num(1215, "customer_vat", 9),
	date(1216, "value_date"),
	amount(1217, "foreign_amount", 15, 2),
	text(1218, "currency", 3),
	amount(1219, "amount_before_discount", 15, 2),
	amount(1220, "discount", 15, 2),
	amount(1221, "amount_after_discount", 15, 2),
	amount(1222, "vat_amount", 15, 2),
	amount(1223, "total_amount", 15, 2),
	amount(1224, "withholding", 12, 2),
	text(1225, "customer_key", 15),
	text(1226, "match_field", 10),
	text(1228, "cancelled", 1),
	date(1230, "document_date"),
	text(1231, "branch_id", 7),
	text(1233, "operator", 9),
	num(1234, "link", 7),
	text(1235, "reserved", 13),
)

var d110 = build(CodeD110, "Document line", 339,
	text(1250, FieldRecordCode, 4),
	num(1251, FieldRecordNumber, 9),
	num(1252, "vat_number", 9),
	num(1253, "document_type", 3),
	text(1254, "document_number", 20),
	num(1255, "line_number", 4),
	num(1256, "base_document_type", 3),
	text(1257, "base_document_number", 20),
	num(1258, "transaction_type", 1),
	text(1259, "internal_sku", 20),
	text(1260, "description", 30),
	text(1261, "manufacturer_name", 50),
	text(1262, "serial_number", 30),
	text(1263, "unit", 20),
	amount(1264, "quantity", 17, 4),
	amount(1265, "unit_price", 15, 2),
	amount(1266, "line_discount", 15, 2),
	amount(1267, "line_total", 15, 2),
	dec(1268, "vat_rate", 4, 2),
	text(1270, "branch_id", 7),
	date(1272, "document_date"),
	num(1273, "link", 7),
	text(1274, "base_branch_id", 7),
	text(1275, "reserved", 21),
)

var d120 = build(CodeD120, "Receipt line", 222,
	text(1300, FieldRecordCode, 4),
	num(1301, FieldRecordNumber, 9),
	num(1302, "vat_number", 9),
	num(1303, "document_type", 3),
	text(1304, "document_number", 20),
	num(1305, "line_number", 4),
	num(1306, "payment_type", 1),
	num(1307, "bank_number", 10),
	num(1308, "branch_number", 10),
	num(1309, "account_number", 15),
	num(1310, "check_number", 10),
	date(1311, "due_date"),
	amount(1312, "amount", 15, 2),
	num(1313, "acquirer_code", 1),
	text(1314, "card_name", 20),
	num(1315, "credit_transaction_type", 1),
	text(1320, "branch_id", 7),
	date(1322, "document_date"),
	num(1323, "link", 7),
	text(1324, "reserved", 60),
)

var b100 = build(CodeB100, "Journal entry line", 317,
	text(1350, FieldRecordCode, 4),
	num(1351, FieldRecordNumber, 9),
	num(1352, "vat_number", 9),
	num(1353, "transaction_number", 10),
	num(1354, "transaction_line", 5),
	num(1355, "batch", 8),
	text(1356, "transaction_type", 15),
	text(1357, "reference", 20),
	num(1358, "reference_type", 3),
	text(1359, "reference_2", 20),
	num(1360, "reference_type_2", 3),
	text(1361, "details", 50),
	date(1362, "date"),
	date(1363, "value_date"),
	text(1364, "account_key", 15),
	text(1365, "counter_account_key", 15),
	num(1366, "debit_credit", 1),
	text(1367, "currency", 3),
	amount(1368, "amount", 15, 2),
	amount(1369, "foreign_amount", 15, 2),
	amount(1370, "quantity", 12, 2),
	text(1371, "match_field_1", 10),
	text(1372, "match_field_2", 10),
	text(1374, "branch_id", 7),
	date(1375, "entry_date"),
	text(1376, "operator", 9),
	text(1377, "reserved", 25),
)

var b110 = build(CodeB110, "Account", 376,
	text(1400, FieldRecordCode, 4),
	num(1401, FieldRecordNumber, 9),
	num(1402, "vat_number", 9),
	text(1403, "account_key", 15),
	text(1404, "account_name", 50),
	text(1405, "balance_code", 15),
	text(1406, "balance_description", 30),
	text(1407, "street", 50),
	text(1408, "house_number", 10),
	text(1409, "city", 30),
	text(1410, "zip", 8),
	text(1411, "country", 30),
	text(1412, "country_code", 2),
	text(1413, "parent_account", 15),
	amount(1414, "opening_balance", 15, 2),
	amount(1415, "total_debit", 15, 2),
	amount(1416, "total_credit", 15, 2),
	num(1417, "classification", 4),
	num(1419, "counterparty_vat", 9),
	text(1421, "branch_id", 7),
	amount(1422, "opening_balance_foreign", 15, 2),
	text(1423, "currency", 3),
	text(1424, "reserved", 16),
)

var m100 = build(CodeM100, "Inventory item", 298,
	text(1450, FieldRecordCode, 4),
	num(1451, FieldRecordNumber, 9),
	num(1452, "vat_number", 9),
	text(1453, "universal_code", 20),
	text(1454, "supplier_code", 20),
	text(1455, "internal_code", 20),
	text(1456, "name", 50),
	text(1457, "category_code", 10),
	text(1458, "category_description", 30),
	text(1459, "unit", 20),
	amount(1460, "opening_stock", 12, 2),
	amount(1461, "total_in", 12, 2),
	amount(1462, "total_out", 12, 2),
	dec(1463, "cost_excluding_customs", 10, 2),
	dec(1464, "cost_including_customs", 10, 2),
	text(1465, "reserved", 50),
)

var z900 = build(CodeZ900, "Data file closing record", 110,
	text(1150, FieldRecordCode, 4),
	num(1151, FieldRecordNumber, 9),
	num(1152, "vat_number", 9),
	num(1153, "primary_id", 15),
	fixed(1154, FieldSystemCode, 8, SystemCode),
	num(1155, FieldTotalRecords, 15),
	text(1156, "reserved", 50),
)
