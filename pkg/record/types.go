package record

import (
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Char is a C*1 single character field.
type Char byte

func (c Char) String() string {
	if c == 0 {
		return ""
	}
	return string(rune(c))
}

// MarshalText renders the character rather than its code.
func (c Char) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts an empty string or a single Latin-1 character.
func (c *Char) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = 0
		return nil
	}
	r, size := utf8.DecodeRune(text)
	if size != len(text) || r > 0xFF {
		return errors.Newf("C*1 value %q is not a single character", text)
	}
	*c = Char(r)
	return nil
}

// FAR is the File Attributes Record.
type FAR struct {
	Base
	CpuType uint8 `json:"CPU_TYPE"`
	StdfVer uint8 `json:"STDF_VER"`
}

func (*FAR) TypeCode() TypeCode  { return TypeFAR }
func (*FAR) Description() string { return "File Attributes Record" }

// ATR is the Audit Trail Record.
type ATR struct {
	Base
	ModTim  time.Time `json:"MOD_TIM"`
	CmdLine string    `json:"CMD_LINE"`
}

func (*ATR) TypeCode() TypeCode  { return TypeATR }
func (*ATR) Description() string { return "Audit Trail Record" }

// MIR is the Master Information Record.
type MIR struct {
	Base
	SetupT  time.Time `json:"SETUP_T"`
	StartT  time.Time `json:"START_T"`
	StatNum uint8     `json:"STAT_NUM"`
	ModeCod Char      `json:"MODE_COD"`
	RtstCod Char      `json:"RTST_COD"`
	ProtCod Char      `json:"PROT_COD"`
	BurnTim uint16    `json:"BURN_TIM"`
	CmodCod Char      `json:"CMOD_COD"`
	LotID   string    `json:"LOT_ID"`
	PartTyp string    `json:"PART_TYP"`
	NodeNam string    `json:"NODE_NAM"`
	TstrTyp string    `json:"TSTR_TYP"`
	JobNam  string    `json:"JOB_NAM"`
	JobRev  string    `json:"JOB_REV"`
	SblotID string    `json:"SBLOT_ID"`
	OperNam string    `json:"OPER_NAM"`
	ExecTyp string    `json:"EXEC_TYP"`
	ExecVer string    `json:"EXEC_VER"`
	TestCod string    `json:"TEST_COD"`
	TstTemp string    `json:"TST_TEMP"`
	UserTxt string    `json:"USER_TXT"`
	AuxFile string    `json:"AUX_FILE"`
	PkgTyp  string    `json:"PKG_TYP"`
	FamlyID string    `json:"FAMLY_ID"`
	DateCod string    `json:"DATE_COD"`
	FacilID string    `json:"FACIL_ID"`
	FloorID string    `json:"FLOOR_ID"`
	ProcID  string    `json:"PROC_ID"`
	OperFrq string    `json:"OPER_FRQ"`
	SpecNam string    `json:"SPEC_NAM"`
	SpecVer string    `json:"SPEC_VER"`
	FlowID  string    `json:"FLOW_ID"`
	SetupID string    `json:"SETUP_ID"`
	DsgnRev string    `json:"DSGN_REV"`
	EngID   string    `json:"ENG_ID"`
	RomCod  string    `json:"ROM_COD"`
	SerlNum string    `json:"SERL_NUM"`
	SuprNam string    `json:"SUPR_NAM"`
}

func (*MIR) TypeCode() TypeCode  { return TypeMIR }
func (*MIR) Description() string { return "Master Information Record" }

// MRR is the Master Results Record.
type MRR struct {
	Base
	FinishT time.Time `json:"FINISH_T"`
	DispCod Char      `json:"DISP_COD"`
	UsrDesc string    `json:"USR_DESC"`
	ExcDesc string    `json:"EXC_DESC"`
}

func (*MRR) TypeCode() TypeCode  { return TypeMRR }
func (*MRR) Description() string { return "Master Results Record" }

// PCR is the Part Count Record.
type PCR struct {
	Base
	HeadNum uint8  `json:"HEAD_NUM"`
	SiteNum uint8  `json:"SITE_NUM"`
	PartCnt uint32 `json:"PART_CNT"`
	RtstCnt uint32 `json:"RTST_CNT"`
	AbrtCnt uint32 `json:"ABRT_CNT"`
	GoodCnt uint32 `json:"GOOD_CNT"`
	FuncCnt uint32 `json:"FUNC_CNT"`
}

func (*PCR) TypeCode() TypeCode  { return TypePCR }
func (*PCR) Description() string { return "Part Count Record" }

// HBR is the Hardware Bin Record.
type HBR struct {
	Base
	HeadNum uint8  `json:"HEAD_NUM"`
	SiteNum uint8  `json:"SITE_NUM"`
	HbinNum uint16 `json:"HBIN_NUM"`
	HbinCnt uint32 `json:"HBIN_CNT"`
	HbinPf  Char   `json:"HBIN_PF"`
	HbinNam string `json:"HBIN_NAM"`
}

func (*HBR) TypeCode() TypeCode  { return TypeHBR }
func (*HBR) Description() string { return "Hardware Bin Record" }

// SBR is the Software Bin Record.
type SBR struct {
	Base
	HeadNum uint8  `json:"HEAD_NUM"`
	SiteNum uint8  `json:"SITE_NUM"`
	SbinNum uint16 `json:"SBIN_NUM"`
	SbinCnt uint32 `json:"SBIN_CNT"`
	SbinPf  Char   `json:"SBIN_PF"`
	SbinNam string `json:"SBIN_NAM"`
}

func (*SBR) TypeCode() TypeCode  { return TypeSBR }
func (*SBR) Description() string { return "Software Bin Record" }

// PMR is the Pin Map Record.
type PMR struct {
	Base
	PmrIndx uint16 `json:"PMR_INDX"`
	ChanTyp uint16 `json:"CHAN_TYP"`
	ChanNam string `json:"CHAN_NAM"`
	PhyNam  string `json:"PHY_NAM"`
	LogNam  string `json:"LOG_NAM"`
	HeadNum uint8  `json:"HEAD_NUM"`
	SiteNum uint8  `json:"SITE_NUM"`
}

func (*PMR) TypeCode() TypeCode  { return TypePMR }
func (*PMR) Description() string { return "Pin Map Record" }

// PGR is the Pin Group Record.
type PGR struct {
	Base
	GrpIndx uint16   `json:"GRP_INDX"`
	GrpNam  string   `json:"GRP_NAM"`
	IndxCnt uint16   `json:"INDX_CNT"`
	PmrIndx []uint16 `json:"PMR_INDX"`
}

func (*PGR) TypeCode() TypeCode  { return TypePGR }
func (*PGR) Description() string { return "Pin Group Record" }

// PLR is the Pin List Record.
type PLR struct {
	Base
	GrpCnt  uint16   `json:"GRP_CNT"`
	GrpIndx []uint16 `json:"GRP_INDX"`
	GrpMode []uint16 `json:"GRP_MODE"`
	GrpRadx []uint8  `json:"GRP_RADX"`
	PgmChar []string `json:"PGM_CHAR"`
	RtnChar []string `json:"RTN_CHAR"`
	PgmChal []string `json:"PGM_CHAL"`
	RtnChal []string `json:"RTN_CHAL"`
}

func (*PLR) TypeCode() TypeCode  { return TypePLR }
func (*PLR) Description() string { return "Pin List Record" }

// RDR is the Retest Data Record.
type RDR struct {
	Base
	NumBins uint16   `json:"NUM_BINS"`
	RtstBin []uint16 `json:"RTST_BIN"`
}

func (*RDR) TypeCode() TypeCode  { return TypeRDR }
func (*RDR) Description() string { return "Retest Data Record" }

// SDR is the Site Description Record.
type SDR struct {
	Base
	HeadNum uint8   `json:"HEAD_NUM"`
	SiteGrp uint8   `json:"SITE_GRP"`
	SiteCnt uint8   `json:"SITE_CNT"`
	SiteNum []uint8 `json:"SITE_NUM"`
	HandTyp string  `json:"HAND_TYP"`
	HandID  string  `json:"HAND_ID"`
	CardTyp string  `json:"CARD_TYP"`
	CardID  string  `json:"CARD_ID"`
	LoadTyp string  `json:"LOAD_TYP"`
	LoadID  string  `json:"LOAD_ID"`
	DibTyp  string  `json:"DIB_TYP"`
	DibID   string  `json:"DIB_ID"`
	CablTyp string  `json:"CABL_TYP"`
	CablID  string  `json:"CABL_ID"`
	ContTyp string  `json:"CONT_TYP"`
	ContID  string  `json:"CONT_ID"`
	LasrTyp string  `json:"LASR_TYP"`
	LasrID  string  `json:"LASR_ID"`
	ExtrTyp string  `json:"EXTR_TYP"`
	ExtrID  string  `json:"EXTR_ID"`
}

func (*SDR) TypeCode() TypeCode  { return TypeSDR }
func (*SDR) Description() string { return "Site Description Record" }

// WIR is the Wafer Information Record.
type WIR struct {
	Base
	HeadNum uint8     `json:"HEAD_NUM"`
	SiteGrp uint8     `json:"SITE_GRP"`
	StartT  time.Time `json:"START_T"`
	WaferID string    `json:"WAFER_ID"`
}

func (*WIR) TypeCode() TypeCode  { return TypeWIR }
func (*WIR) Description() string { return "Wafer Information Record" }

// WRR is the Wafer Results Record.
type WRR struct {
	Base
	HeadNum uint8     `json:"HEAD_NUM"`
	SiteGrp uint8     `json:"SITE_GRP"`
	FinishT time.Time `json:"FINISH_T"`
	PartCnt uint32    `json:"PART_CNT"`
	RtstCnt uint32    `json:"RTST_CNT"`
	AbrtCnt uint32    `json:"ABRT_CNT"`
	GoodCnt uint32    `json:"GOOD_CNT"`
	FuncCnt uint32    `json:"FUNC_CNT"`
	WaferID string    `json:"WAFER_ID"`
	FabwfID string    `json:"FABWF_ID"`
	FrameID string    `json:"FRAME_ID"`
	MaskID  string    `json:"MASK_ID"`
	UsrDesc string    `json:"USR_DESC"`
	ExcDesc string    `json:"EXC_DESC"`
}

func (*WRR) TypeCode() TypeCode  { return TypeWRR }
func (*WRR) Description() string { return "Wafer Results Record" }

// WCR is the Wafer Configuration Record.
type WCR struct {
	Base
	WafrSiz float32 `json:"WAFR_SIZ"`
	DieHt   float32 `json:"DIE_HT"`
	DieWid  float32 `json:"DIE_WID"`
	WfUnits uint8   `json:"WF_UNITS"`
	WfFlat  Char    `json:"WF_FLAT"`
	CenterX int16   `json:"CENTER_X"`
	CenterY int16   `json:"CENTER_Y"`
	PosX    Char    `json:"POS_X"`
	PosY    Char    `json:"POS_Y"`
}

func (*WCR) TypeCode() TypeCode  { return TypeWCR }
func (*WCR) Description() string { return "Wafer Configuration Record" }

// PIR is the Part Information Record.
type PIR struct {
	Base
	HeadNum uint8 `json:"HEAD_NUM"`
	SiteNum uint8 `json:"SITE_NUM"`
}

func (*PIR) TypeCode() TypeCode  { return TypePIR }
func (*PIR) Description() string { return "Part Information Record" }

// PRR is the Part Results Record.
type PRR struct {
	Base
	HeadNum uint8  `json:"HEAD_NUM"`
	SiteNum uint8  `json:"SITE_NUM"`
	PartFlg uint8  `json:"PART_FLG"`
	NumTest uint16 `json:"NUM_TEST"`
	HardBin uint16 `json:"HARD_BIN"`
	SoftBin uint16 `json:"SOFT_BIN"`
	XCoord  int16  `json:"X_COORD"`
	YCoord  int16  `json:"Y_COORD"`
	TestT   uint32 `json:"TEST_T"`
	PartID  string `json:"PART_ID"`
	PartTxt string `json:"PART_TXT"`
	PartFix []byte `json:"PART_FIX"`
}

func (*PRR) TypeCode() TypeCode  { return TypePRR }
func (*PRR) Description() string { return "Part Results Record" }

// TSR is the Test Synopsis Record.
type TSR struct {
	Base
	HeadNum uint8   `json:"HEAD_NUM"`
	SiteNum uint8   `json:"SITE_NUM"`
	TestTyp Char    `json:"TEST_TYP"`
	TestNum uint32  `json:"TEST_NUM"`
	ExecCnt uint32  `json:"EXEC_CNT"`
	FailCnt uint32  `json:"FAIL_CNT"`
	AlrmCnt uint32  `json:"ALRM_CNT"`
	TestNam string  `json:"TEST_NAM"`
	SeqName string  `json:"SEQ_NAME"`
	TestLbl string  `json:"TEST_LBL"`
	OptFlag uint8   `json:"OPT_FLAG"`
	TestTim float32 `json:"TEST_TIM"`
	TestMin float32 `json:"TEST_MIN"`
	TestMax float32 `json:"TEST_MAX"`
	TstSums float32 `json:"TST_SUMS"`
	TstSqrs float32 `json:"TST_SQRS"`
}

func (*TSR) TypeCode() TypeCode  { return TypeTSR }
func (*TSR) Description() string { return "Test Synopsis Record" }

// PTR is the Parametric Test Record.
type PTR struct {
	Base
	TestNum uint32  `json:"TEST_NUM"`
	HeadNum uint8   `json:"HEAD_NUM"`
	SiteNum uint8   `json:"SITE_NUM"`
	TestFlg uint8   `json:"TEST_FLG"`
	ParmFlg uint8   `json:"PARM_FLG"`
	Result  float32 `json:"RESULT"`
	TestTxt string  `json:"TEST_TXT"`
	AlarmID string  `json:"ALARM_ID"`
	OptFlag uint8   `json:"OPT_FLAG"`
	ResScal int8    `json:"RES_SCAL"`
	LlmScal int8    `json:"LLM_SCAL"`
	HlmScal int8    `json:"HLM_SCAL"`
	LoLimit float32 `json:"LO_LIMIT"`
	HiLimit float32 `json:"HI_LIMIT"`
	Units   string  `json:"UNITS"`
	CResfmt string  `json:"C_RESFMT"`
	CLlmfmt string  `json:"C_LLMFMT"`
	CHlmfmt string  `json:"C_HLMFMT"`
	LoSpec  float32 `json:"LO_SPEC"`
	HiSpec  float32 `json:"HI_SPEC"`
}

func (*PTR) TypeCode() TypeCode  { return TypePTR }
func (*PTR) Description() string { return "Parametric Test Record" }

// MPR is the Multiple-Result Parametric Record. RtnStat holds one nibble per
// element.
type MPR struct {
	Base
	TestNum uint32    `json:"TEST_NUM"`
	HeadNum uint8     `json:"HEAD_NUM"`
	SiteNum uint8     `json:"SITE_NUM"`
	TestFlg uint8     `json:"TEST_FLG"`
	ParmFlg uint8     `json:"PARM_FLG"`
	RtnIcnt uint16    `json:"RTN_ICNT"`
	RsltCnt uint16    `json:"RSLT_CNT"`
	RtnStat []uint8   `json:"RTN_STAT"`
	RtnRslt []float32 `json:"RTN_RSLT"`
	TestTxt string    `json:"TEST_TXT"`
	AlarmID string    `json:"ALARM_ID"`
	OptFlag uint8     `json:"OPT_FLAG"`
	ResScal int8      `json:"RES_SCAL"`
	LlmScal int8      `json:"LLM_SCAL"`
	HlmScal int8      `json:"HLM_SCAL"`
	LoLimit float32   `json:"LO_LIMIT"`
	HiLimit float32   `json:"HI_LIMIT"`
	StartIn float32   `json:"START_IN"`
	IncrIn  float32   `json:"INCR_IN"`
	RtnIndx []uint16  `json:"RTN_INDX"`
	Units   string    `json:"UNITS"`
	UnitsIn string    `json:"UNITS_IN"`
	CResfmt string    `json:"C_RESFMT"`
	CLlmfmt string    `json:"C_LLMFMT"`
	CHlmfmt string    `json:"C_HLMFMT"`
	LoSpec  float32   `json:"LO_SPEC"`
	HiSpec  float32   `json:"HI_SPEC"`
}

func (*MPR) TypeCode() TypeCode  { return TypeMPR }
func (*MPR) Description() string { return "Multiple-Result Parametric Record" }

// FTR is the Functional Test Record.
type FTR struct {
	Base
	TestNum uint32   `json:"TEST_NUM"`
	HeadNum uint8    `json:"HEAD_NUM"`
	SiteNum uint8    `json:"SITE_NUM"`
	TestFlg uint8    `json:"TEST_FLG"`
	OptFlag uint8    `json:"OPT_FLAG"`
	CyclCnt uint32   `json:"CYCL_CNT"`
	RelVadr uint32   `json:"REL_VADR"`
	ReptCnt uint32   `json:"REPT_CNT"`
	NumFail uint32   `json:"NUM_FAIL"`
	XfailAd int32    `json:"XFAIL_AD"`
	YfailAd int32    `json:"YFAIL_AD"`
	VectOff int16    `json:"VECT_OFF"`
	RtnIcnt uint16   `json:"RTN_ICNT"`
	PgmIcnt uint16   `json:"PGM_ICNT"`
	RtnIndx []uint16 `json:"RTN_INDX"`
	RtnStat []uint8  `json:"RTN_STAT"`
	PgmIndx []uint16 `json:"PGM_INDX"`
	PgmStat []uint8  `json:"PGM_STAT"`
	FailPin BitField `json:"FAIL_PIN"`
	VectNam string   `json:"VECT_NAM"`
	TimeSet string   `json:"TIME_SET"`
	OpCode  string   `json:"OP_CODE"`
	TestTxt string   `json:"TEST_TXT"`
	AlarmID string   `json:"ALARM_ID"`
	ProgTxt string   `json:"PROG_TXT"`
	RsltTxt string   `json:"RSLT_TXT"`
	PatgNum uint8    `json:"PATG_NUM"`
	SpinMap BitField `json:"SPIN_MAP"`
}

func (*FTR) TypeCode() TypeCode  { return TypeFTR }
func (*FTR) Description() string { return "Functional Test Record" }

// BPS is the Begin Program Section Record.
type BPS struct {
	Base
	SeqName string `json:"SEQ_NAME"`
}

func (*BPS) TypeCode() TypeCode  { return TypeBPS }
func (*BPS) Description() string { return "Begin Program Section Record" }

// EPS is the End Program Section Record. It has no fields.
type EPS struct {
	Base
}

func (*EPS) TypeCode() TypeCode  { return TypeEPS }
func (*EPS) Description() string { return "End Program Section Record" }

// DTR is the Datalog Text Record.
type DTR struct {
	Base
	TextDat string `json:"TEXT_DAT"`
}

func (*DTR) TypeCode() TypeCode  { return TypeDTR }
func (*DTR) Description() string { return "Datalog Text Record" }
