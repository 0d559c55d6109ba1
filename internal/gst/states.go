package gst

// StateCode is a 2-digit GSTIN state-code prefix ("01".."37").
type StateCode string

// StateTable maps GSTIN state-code prefixes to state names. The table is
// injected into the Resolver rather than compiled in, so alternative
// jurisdiction tables can be supplied and the default tested in isolation.
type StateTable map[StateCode]string

// DefaultStateTable returns the 37 recognized Indian GSTIN state-code
// prefixes, including union territories.
func DefaultStateTable() StateTable {
	return StateTable{
		"01": "Jammu & Kashmir",
		"02": "Himachal Pradesh",
		"03": "Punjab",
		"04": "Chandigarh",
		"05": "Uttarakhand",
		"06": "Haryana",
		"07": "Delhi",
		"08": "Rajasthan",
		"09": "Uttar Pradesh",
		"10": "Bihar",
		"11": "Sikkim",
		"12": "Arunachal Pradesh",
		"13": "Nagaland",
		"14": "Manipur",
		"15": "Mizoram",
		"16": "Tripura",
		"17": "Meghalaya",
		"18": "Assam",
		"19": "West Bengal",
		"20": "Jharkhand",
		"21": "Odisha",
		"22": "Chhattisgarh",
		"23": "Madhya Pradesh",
		"24": "Gujarat",
		"25": "Daman & Diu",
		"26": "Dadra & Nagar Haveli",
		"27": "Maharashtra",
		"28": "Andhra Pradesh",
		"29": "Karnataka",
		"30": "Goa",
		"31": "Lakshadweep",
		"32": "Kerala",
		"33": "Tamil Nadu",
		"34": "Puducherry",
		"35": "Andaman & Nicobar Islands",
		"36": "Telangana",
		"37": "Andhra Pradesh (New)",
	}
}

// Name returns the state name for a code, or an empty string if the code is
// not in the table.
func (t StateTable) Name(code StateCode) string {
	return t[code]
}

// Known reports whether the code is a recognized state-code prefix.
func (t StateTable) Known(code StateCode) bool {
	_, ok := t[code]
	return ok
}
